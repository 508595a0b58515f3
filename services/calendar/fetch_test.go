package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"avix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gcal "google.golang.org/api/calendar/v3"
)

func TestFetchEnrichedEventsAttachesCallByPhone(t *testing.T) {
	loc := Location()
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, loc)

	provider := &fakeProvider{events: []*gcal.Event{{
		Id:          "evt-1",
		Summary:     "Mario (AI)",
		Description: "Prenotazione automatica Avix AI\nTelefono: +39 333 1234567",
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: start.Add(SlotDuration).Format(time.RFC3339)},
	}}}
	calls := &fakeCallsRepo{calls: []models.Call{{
		ID:             "call-1",
		CustomerNumber: "3331234567",
		Summary:        "Richiesta appuntamento",
		Sentiment:      models.SentimentPositive,
		Duration:       80,
	}}}
	settings := newFakeSettingsRepo(connectedSettings("tenant-1"))
	svc := newTestService(settings, calls, &fakeAcquirer{provider: provider})

	events, err := svc.FetchEnrichedEvents(context.Background(), "tenant-1", start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.True(t, ev.IsAIBooking)
	assert.Equal(t, "+393331234567", ev.AttendeePhone)
	require.NotNil(t, ev.CallID)
	assert.Equal(t, "call-1", *ev.CallID)
	assert.Equal(t, "Richiesta appuntamento", ev.CallSummary)
	assert.Equal(t, models.SentimentPositive, ev.CallSentiment)
}

func TestMatchCallPhoneContainment(t *testing.T) {
	calls := []models.Call{
		{ID: "call-a", CustomerNumber: "+39 333 1234567"},
		{ID: "call-b", CustomerNumber: "3479999999"},
	}

	// Event phone without prefix matches the prefixed call number.
	matched := matchCall(calls, "3331234567", "")
	require.NotNil(t, matched)
	assert.Equal(t, "call-a", matched.ID)

	// And the other direction: prefixed event phone, bare call number.
	matched = matchCall([]models.Call{{ID: "call-c", CustomerNumber: "3331234567"}}, "+393331234567", "")
	require.NotNil(t, matched)
	assert.Equal(t, "call-c", matched.ID)

	assert.Nil(t, matchCall(calls, "3201111111", ""))
}

func TestMatchCallFallsBackToEmail(t *testing.T) {
	calls := []models.Call{
		{ID: "call-a", Summary: "Il cliente mario@example.com chiede un appuntamento"},
	}

	matched := matchCall(calls, "", "Mario@Example.com")
	require.NotNil(t, matched)
	assert.Equal(t, "call-a", matched.ID)

	assert.Nil(t, matchCall(calls, "", "lucia@example.com"))
}

func TestFetchEnrichedEventsSurvivesCallListFailure(t *testing.T) {
	loc := Location()
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, loc)
	provider := &fakeProvider{events: []*gcal.Event{{
		Id:    "evt-1",
		Start: &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:   &gcal.EventDateTime{DateTime: start.Add(SlotDuration).Format(time.RFC3339)},
	}}}
	calls := &fakeCallsRepo{listErr: errors.New("db down")}
	settings := newFakeSettingsRepo(connectedSettings("tenant-1"))
	svc := newTestService(settings, calls, &fakeAcquirer{provider: provider})

	events, err := svc.FetchEnrichedEvents(context.Background(), "tenant-1", start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].CallID)
	assert.Equal(t, "Evento", events[0].Title)
}

func TestFetchEnrichedEventsRevokedToken(t *testing.T) {
	acq := &fakeAcquirer{err: NewError(CodeTokenRevoked, "invalid_grant")}
	settings := newFakeSettingsRepo(connectedSettings("tenant-1"))
	svc := newTestService(settings, &fakeCallsRepo{}, acq)

	_, err := svc.FetchEnrichedEvents(context.Background(), "tenant-1", time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, CodeTokenRevoked, ErrorCode(err))
}

func TestFetchEnrichedEventsNotConfigured(t *testing.T) {
	settings := newFakeSettingsRepo(&models.Settings{ID: "s1", TenantID: "tenant-1"})
	svc := newTestService(settings, &fakeCallsRepo{}, &fakeAcquirer{})

	_, err := svc.FetchEnrichedEvents(context.Background(), "tenant-1", time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, CodeNotConfigured, ErrorCode(err))
}

func TestAcquireForTenantPersistsRefreshedToken(t *testing.T) {
	acq := &fakeAcquirer{provider: &fakeProvider{}, refreshed: "brand-new-token"}
	settings := newFakeSettingsRepo(connectedSettings("tenant-1"))
	svc := newTestService(settings, &fakeCallsRepo{}, acq)

	_, _, err := svc.acquireForTenant(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "refresh-abc", acq.seenRefreshToken)
	assert.Equal(t, "brand-new-token", settings.accessWrites["settings-tenant-1"])
}

func TestMockEnrichedEventsRespectsWindow(t *testing.T) {
	now := time.Now()

	all := mockEnrichedEvents(now.Add(-48*time.Hour), now.Add(72*time.Hour))
	assert.NotEmpty(t, all)

	none := mockEnrichedEvents(now.Add(-48*time.Hour), now.Add(-47*time.Hour))
	assert.Empty(t, none)
}
