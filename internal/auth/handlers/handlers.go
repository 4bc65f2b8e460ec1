package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/brizzai/headless-auth/internal/auth/constants"
	"github.com/brizzai/headless-auth/internal/auth/cookies"
	"github.com/brizzai/headless-auth/internal/auth/models"
	"github.com/brizzai/headless-auth/internal/auth/providers"
	"github.com/brizzai/headless-auth/internal/logger"
	"github.com/brizzai/headless-auth/internal/utils"
	"go.uber.org/zap"
)

var errEmptyResult = errors.New("token exchanger returned neither tokens nor an error")

// Handler serves the token endpoint
type Handler struct {
	exchanger providers.TokenExchanger
	cookies   cookies.Factory
}

// NewHandler creates a new Handler instance
func NewHandler(exchanger providers.TokenExchanger, cookieFactory cookies.Factory) *Handler {
	return &Handler{
		exchanger: exchanger,
		cookies:   cookieFactory,
	}
}

// HandleAuthorize exchanges the authorization code from the query string, or
// the refresh token stored in the cookie, for a new token set. On success the
// new refresh token replaces the cookie and the token set is returned as JSON.
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		utils.WriteError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}

	code := r.URL.Query().Get(constants.CodeQueryParam)
	store := h.cookies.ForRequest(w, r)
	refreshToken := store.RefreshToken()

	if code == "" && refreshToken == "" {
		utils.WriteError(w, http.StatusUnauthorized, constants.ErrorUnauthorized)
		return
	}

	result, err := h.exchange(r.Context(), code, refreshToken)
	if err != nil {
		logger.Error("Failed to exchange token",
			zap.Error(err),
			zap.Bool("has_code", code != ""),
			zap.String("request_id", r.Header.Get(constants.RequestIDHeader)),
		)
		utils.WriteError(w, http.StatusInternalServerError, constants.ErrorInternal)
		return
	}

	if result.IsTokens() {
		store.SetRefreshToken(result.Tokens.RefreshToken, result.Tokens.RefreshTokenExpiration)
		utils.WriteJSON(w, http.StatusOK, result.Tokens)
		return
	}

	status := result.Error.Status
	if status <= 299 {
		status = http.StatusUnauthorized
	}
	logger.Info("Identity provider rejected the grant",
		zap.Int("upstream_status", result.Error.Status),
		zap.Int("status", status),
	)
	utils.WriteJSON(w, status, result.Error.Result)
}

// exchange calls the exchanger and turns panics and empty results into errors
func (h *Handler) exchange(ctx context.Context, code, refreshToken string) (result *models.AuthorizeResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("token exchange panicked: %v", rec)
		}
	}()

	result, err = h.exchanger.Exchange(ctx, code, refreshToken)
	if err != nil {
		return nil, err
	}
	if result == nil || (result.Tokens == nil && result.Error == nil) {
		return nil, errEmptyResult
	}
	return result, nil
}

// Redirect sends a 302 to url with an empty body
func Redirect(w http.ResponseWriter, url string) {
	w.Header().Set("Location", url)
	w.WriteHeader(http.StatusFound)
}

// HandleHealth reports liveness
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
