package calendar

import (
	"context"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// providerTimeout bounds every outbound Google call. The voice-AI vendor
// enforces a short turn-taking timeout upstream; a hung request must not
// block a live conversation.
const providerTimeout = 10 * time.Second

// ClientAcquirer produces a provider client preloaded with a currently
// valid access credential. The single point of truth for credential
// validity: every downstream provider call re-acquires through it.
type ClientAcquirer interface {
	// AcquireClient eagerly exchanges the refresh token (the access hint is
	// never trusted) and returns the bound provider plus the refreshed
	// access token for the caller to persist. A revoked refresh token
	// yields OAUTH_TOKEN_REVOKED; callers surface "reconnect required" and
	// never retry, since revoked credentials do not heal.
	AcquireClient(ctx context.Context, refreshToken, accessHint string) (Provider, string, error)
}

// TokenManager implements ClientAcquirer against Google OAuth.
type TokenManager struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (m *TokenManager) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.ClientID,
		ClientSecret: m.ClientSecret,
		RedirectURL:  m.RedirectURL,
		Scopes: []string{
			gcal.CalendarEventsScope,
			gcal.CalendarReadonlyScope,
			oauth2api.UserinfoEmailScope,
		},
		Endpoint: google.Endpoint,
	}
}

func (m *TokenManager) AcquireClient(ctx context.Context, refreshToken, accessHint string) (Provider, string, error) {
	if m.ClientID == "" || m.ClientSecret == "" {
		// Server-side misconfiguration, not a tenant problem. Must not be
		// reported as a revoked token or the dashboard tells the tenant to
		// reconnect a calendar that is fine.
		return nil, "", NewError(CodeMissingCredentials, "google oauth client credentials not configured")
	}
	if refreshToken == "" {
		return nil, "", NewError(CodeCredentialMissing, "empty refresh credential")
	}

	cfg := m.oauthConfig()

	// Seed the token as already expired so the source performs a real
	// refresh exchange instead of trusting the hint.
	seed := &oauth2.Token{
		RefreshToken: refreshToken,
		AccessToken:  accessHint,
		Expiry:       time.Now().Add(-time.Minute),
	}

	refreshCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	fresh, err := cfg.TokenSource(refreshCtx, seed).Token()
	if err != nil {
		return nil, "", NewError(CodeTokenRevoked, "refresh token exchange failed: "+err.Error())
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, fresh)))
	if err != nil {
		return nil, "", NewError(CodeFetchError, "calendar client init failed: "+err.Error())
	}

	return &googleProvider{svc: svc}, fresh.AccessToken, nil
}

// AuthCodeURL returns the Google consent URL carrying the opaque state.
// Offline access with forced consent, so a refresh token is issued.
func (m *TokenManager) AuthCodeURL(state string) string {
	return m.oauthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for tokens.
func (m *TokenManager) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	exCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()
	return m.oauthConfig().Exchange(exCtx, code)
}

// AccountInfo returns the authorized account's email and primary calendar
// id, used to complete the OAuth handshake.
func (m *TokenManager) AccountInfo(ctx context.Context, token *oauth2.Token) (email, calendarID string, err error) {
	cfg := m.oauthConfig()
	httpClient := cfg.Client(ctx, token)

	userSvc, err := oauth2api.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return "", "", err
	}
	info, err := userSvc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", "", err
	}
	email = info.Email

	calSvc, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return email, "", err
	}
	list, err := calSvc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return email, email, nil // fall back to the account email as id
	}
	for _, item := range list.Items {
		if item.Primary {
			return email, item.Id, nil
		}
	}
	return email, email, nil
}

// IsRevokedTokenError reports whether the provider rejected the refresh
// credential itself.
func IsRevokedTokenError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "invalid_grant") || strings.Contains(msg, "unauthorized_client")
}
