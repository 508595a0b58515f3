package calendar

import (
	"context"
	"time"

	settingsRepo "avix/database/repository/settings"
	"avix/models"

	gcal "google.golang.org/api/calendar/v3"
)

type fakeSettingsRepo struct {
	rows         map[string]*models.Settings
	accessWrites map[string]string
}

func newFakeSettingsRepo(rows ...*models.Settings) *fakeSettingsRepo {
	repo := &fakeSettingsRepo{
		rows:         make(map[string]*models.Settings),
		accessWrites: make(map[string]string),
	}
	for _, r := range rows {
		repo.rows[r.TenantID] = r
	}
	return repo
}

func (f *fakeSettingsRepo) GetByTenantID(_ context.Context, tenantID string) (*models.Settings, error) {
	if row, ok := f.rows[tenantID]; ok {
		return row, nil
	}
	return nil, settingsRepo.ErrNotFound
}

func (f *fakeSettingsRepo) UpsertOAuth(_ context.Context, tenantID string, data models.OAuthUpdate) error {
	f.rows[tenantID] = &models.Settings{
		ID:                 "settings-" + tenantID,
		TenantID:           tenantID,
		GoogleRefreshToken: data.RefreshToken,
		GoogleAccessToken:  data.AccessToken,
		CalendarConnected:  data.Connected,
	}
	return nil
}

func (f *fakeSettingsRepo) UpdateAccessToken(_ context.Context, id string, accessToken string) error {
	f.accessWrites[id] = accessToken
	return nil
}

func (f *fakeSettingsRepo) ClearOAuth(_ context.Context, id string) error {
	for tenant, row := range f.rows {
		if row.ID == id {
			row.GoogleRefreshToken = nil
			row.GoogleAccessToken = nil
			row.CalendarConnected = false
			f.rows[tenant] = row
		}
	}
	return nil
}

type fakeCallsRepo struct {
	calls   []models.Call
	listErr error
}

func (f *fakeCallsRepo) Upsert(_ context.Context, call *models.Call) error {
	for i := range f.calls {
		if f.calls[i].ExternalCallID == call.ExternalCallID && f.calls[i].TenantID == call.TenantID {
			f.calls[i] = *call
			return nil
		}
	}
	f.calls = append(f.calls, *call)
	return nil
}

func (f *fakeCallsRepo) ListByTenant(_ context.Context, _ string) ([]models.Call, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.calls, nil
}

type fakeProvider struct {
	events   []*gcal.Event
	inserted []*gcal.Event
	patched  map[string]*gcal.Event
	deleted  []string
	listErr  error
}

func (f *fakeProvider) ListEvents(_ context.Context, _ string, _, _ time.Time) ([]*gcal.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeProvider) InsertEvent(_ context.Context, _ string, event *gcal.Event) (*gcal.Event, error) {
	event.Id = "created-1"
	f.inserted = append(f.inserted, event)
	return event, nil
}

func (f *fakeProvider) PatchEvent(_ context.Context, _, eventID string, event *gcal.Event) (*gcal.Event, error) {
	if f.patched == nil {
		f.patched = make(map[string]*gcal.Event)
	}
	event.Id = eventID
	f.patched[eventID] = event
	return event, nil
}

func (f *fakeProvider) DeleteEvent(_ context.Context, _, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return nil
}

type fakeAcquirer struct {
	provider  *fakeProvider
	refreshed string
	err       error

	seenRefreshToken string
}

func (f *fakeAcquirer) AcquireClient(_ context.Context, refreshToken, _ string) (Provider, string, error) {
	f.seenRefreshToken = refreshToken
	if f.err != nil {
		return nil, "", f.err
	}
	return f.provider, f.refreshed, nil
}

func strPtr(s string) *string { return &s }

func connectedSettings(tenantID string) *models.Settings {
	return &models.Settings{
		ID:                 "settings-" + tenantID,
		TenantID:           tenantID,
		CalendarConnected:  true,
		GoogleRefreshToken: strPtr("refresh-abc"),
		GoogleAccessToken:  strPtr("stale-access"),
	}
}

func newTestService(settings *fakeSettingsRepo, calls *fakeCallsRepo, acq *fakeAcquirer) *DefaultCalendarService {
	return &DefaultCalendarService{Settings: settings, Calls: calls, Tokens: acq}
}
