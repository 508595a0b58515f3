package models

// Settings is the per-tenant configuration row. One row per tenant.
//
// Invariant: CalendarConnected is true if and only if GoogleRefreshToken is
// non-nil. The OAuth fields are populated on the first successful handshake,
// the access token is blindly overwritten on every refresh, and all of them
// are nulled together on disconnect.
type Settings struct {
	ID                  string  `json:"id"`
	TenantID            string  `json:"tenantId"`
	CompanyName         string  `json:"companyName"`
	AIActive            bool    `json:"aiActive"`
	GoogleRefreshToken  *string `json:"-"`
	GoogleAccessToken   *string `json:"-"`
	GoogleCalendarEmail *string `json:"googleCalendarEmail,omitempty"`
	GoogleCalendarID    *string `json:"googleCalendarId,omitempty"`
	CalendarConnected   bool    `json:"calendarConnected"`

	// Office hours as hours of day (0 means unset; defaults apply).
	OfficeHoursStart int `json:"officeHoursStart"`
	OfficeHoursEnd   int `json:"officeHoursEnd"`
}

// OAuthUpdate carries the fields written after a Google OAuth handshake.
type OAuthUpdate struct {
	RefreshToken  *string
	AccessToken   *string
	CalendarEmail *string
	CalendarID    *string
	Connected     bool
}

// EffectiveOfficeHours returns the tenant's configured business-hours window,
// falling back to the 09:00-18:00 default when unset or inconsistent.
func (s *Settings) EffectiveOfficeHours(defaultStart, defaultEnd int) (int, int) {
	start, end := s.OfficeHoursStart, s.OfficeHoursEnd
	if start <= 0 || end <= 0 || start >= end {
		return defaultStart, defaultEnd
	}
	return start, end
}
