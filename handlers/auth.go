package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"avix/config"
	settingsRepo "avix/database/repository/settings"
	"avix/middleware"
	"avix/models"
	"avix/services/calendar"
	"avix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler runs the Google OAuth handshake that connects a tenant's
// calendar.
type AuthHandler struct {
	Tokens   *calendar.TokenManager
	Settings settingsRepo.Repository
}

// oauthState is the opaque state round-tripped through Google. The
// timestamp bounds replay; there is no server-side state store.
type oauthState struct {
	UserID    string `json:"user_id"`
	Timestamp int64  `json:"timestamp"`
}

const stateMaxAge = 10 * time.Minute

// Login redirects the authenticated tenant to the Google consent screen.
func (h *AuthHandler) Login(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	state := oauthState{UserID: tenantID, Timestamp: time.Now().Unix()}
	encoded, err := json.Marshal(state)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build OAuth state", "")
		return
	}

	url := h.Tokens.AuthCodeURL(base64.URLEncoding.EncodeToString(encoded))
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// Callback completes the handshake: validates state, exchanges the code,
// resolves the account's email and primary calendar, and persists the
// credentials. Ends with a browser redirect back to the dashboard either
// way, since Google is the caller here, not our frontend.
func (h *AuthHandler) Callback(c *gin.Context) {
	logger := utils.GetLogger()

	redirect := func(param string) {
		c.Redirect(http.StatusTemporaryRedirect,
			config.AppConfig.AppURL+"/dashboard/settings?"+param)
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth consent denied", zap.String("error", errParam))
		redirect("error=access_denied")
		return
	}

	state, err := decodeState(c.Query("state"))
	if err != nil {
		logger.Warn("oauth state rejected", zap.Error(err))
		redirect("error=invalid_state")
		return
	}

	code := c.Query("code")
	if code == "" {
		redirect("error=missing_code")
		return
	}

	token, err := h.Tokens.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.Error("oauth code exchange failed", zap.Error(err))
		redirect("error=exchange_failed")
		return
	}

	email, calendarID, err := h.Tokens.AccountInfo(c.Request.Context(), token)
	if err != nil {
		logger.Error("oauth account lookup failed", zap.Error(err))
		redirect("error=account_lookup_failed")
		return
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		// Google omits the refresh token on re-consent when one was already
		// issued. Keep the stored one instead of clobbering it.
		if existing, err := h.Settings.GetByTenantID(c.Request.Context(), state.UserID); err == nil &&
			existing.GoogleRefreshToken != nil {
			refreshToken = *existing.GoogleRefreshToken
		}
	}
	if refreshToken == "" {
		logger.Error("oauth handshake yielded no refresh token",
			zap.String("tenantID", state.UserID))
		redirect("error=no_refresh_token")
		return
	}

	update := models.OAuthUpdate{
		RefreshToken:  &refreshToken,
		AccessToken:   &token.AccessToken,
		CalendarEmail: &email,
		CalendarID:    &calendarID,
		Connected:     true,
	}
	if err := h.Settings.UpsertOAuth(c.Request.Context(), state.UserID, update); err != nil {
		logger.Error("oauth credential persist failed",
			zap.String("tenantID", state.UserID), zap.Error(err))
		redirect("error=persist_failed")
		return
	}

	logger.Info("calendar connected",
		zap.String("tenantID", state.UserID), zap.String("email", email))
	redirect("success=calendar_connected")
}

func decodeState(raw string) (*oauthState, error) {
	if raw == "" {
		return nil, errors.New("empty state")
	}
	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}
	var state oauthState
	if err := json.Unmarshal(decoded, &state); err != nil {
		return nil, err
	}
	if state.UserID == "" {
		return nil, errors.New("state missing user id")
	}
	if time.Since(time.Unix(state.Timestamp, 0)) > stateMaxAge {
		return nil, errors.New("state expired")
	}
	return &state, nil
}

// Disconnect drops the tenant's stored Google credentials.
func (h *AuthHandler) Disconnect(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	st, err := h.Settings.GetByTenantID(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"disconnected": true})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load settings", "")
		return
	}

	if err := h.Settings.ClearOAuth(c.Request.Context(), st.ID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to disconnect calendar", "")
		return
	}

	utils.GetLogger().Info("calendar disconnected", zap.String("tenantID", tenantID))
	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}
