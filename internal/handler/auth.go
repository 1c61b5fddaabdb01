package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/melodia-app/backend/internal/auth"
	"github.com/melodia-app/backend/pkg/cookie"
	"github.com/melodia-app/backend/pkg/logger"
)

const refreshCookieName = "refreshToken"

// AuthHandler serves the /api/auth routes and owns the refresh cookie
// lifecycle.
type AuthHandler struct {
	svc           *auth.Service
	tokens        *auth.TokenService
	cookies       *cookie.Manager
	secureCookies bool
	log           *slog.Logger
}

// NewAuthHandler wires the handler. secureCookies should be true behind TLS.
func NewAuthHandler(svc *auth.Service, tokens *auth.TokenService, cookies *cookie.Manager, secureCookies bool, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		svc:           svc,
		tokens:        tokens,
		cookies:       cookies,
		secureCookies: secureCookies,
		log:           log,
	}
}

// Routes mounts the auth endpoints on a chi router.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/google", h.GoogleLogin)
	r.Post("/github", h.GithubLogin)
	r.Post("/refresh-token", h.Refresh)
	r.Post("/logout", h.Logout)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Put("/reset-password/{resetToken}", h.ResetPassword)
	r.Get("/verify-email/{verificationToken}", h.VerifyEmail)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Post("/resend-verification", h.ResendVerification)
		r.Put("/change-password", h.ChangePassword)
		r.Get("/me", h.Me)
	})

	return r
}

type authResponse struct {
	Token string          `json:"token"`
	User  auth.PublicUser `json:"user"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.svc.Register(r.Context(), auth.RegisterParams{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.writeSession(w, r, user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.svc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.writeSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDToken string `json:"idToken"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.svc.OAuthLogin(r.Context(), auth.MethodGoogle, body.IDToken)
	if err != nil {
		writeError(w, err)
		return
	}

	h.writeSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) GithubLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.svc.OAuthLogin(r.Context(), auth.MethodGithub, body.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	h.writeSession(w, r, user, http.StatusOK)
}

// Refresh mints a new access token from the refresh cookie. An invalid
// cookie is cleared so the client falls back to a full login.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := h.cookies.Get(r, refreshCookieName)
	if err != nil {
		writeError(w, auth.ErrMissingToken)
		return
	}

	access, err := h.svc.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.cookies.Delete(w, refreshCookieName, h.refreshCookieOptions()...)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": access})
}

// Logout clears the refresh cookie. Idempotent, always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Delete(w, refreshCookieName, h.refreshCookieOptions()...)
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "logged out"})
}

// ForgotPassword starts the reset flow. The response is the same whether or
// not the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), body.Email); err != nil {
		h.log.ErrorContext(r.Context(), "forgot password failed", logger.Error(err))
		writeError(w, errors.New("could not process the request"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "if the email is registered, a reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	token := chi.URLParam(r, "resetToken")
	if err := h.svc.ResetPassword(r.Context(), token, body.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "password has been reset"})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "verificationToken")
	user, err := h.svc.VerifyEmail(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user.Public(),
	})
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, auth.ErrUnauthorized)
		return
	}

	if err := h.svc.ResendVerification(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "verification email sent"})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, auth.ErrUnauthorized)
		return
	}

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, body.CurrentPassword, body.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "password changed"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, auth.ErrUnauthorized)
		return
	}

	user, err := h.svc.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user.Public()})
}

// writeSession sets the refresh cookie and returns the access token with the
// public user view.
func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, user *auth.User, status int) {
	access, refresh, err := h.svc.IssueTokens(user.ID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to issue tokens",
			logger.UserID(user.ID.String()), logger.Error(err))
		writeError(w, err)
		return
	}

	h.cookies.Set(w, refreshCookieName, refresh, h.refreshCookieOptions()...)

	writeJSON(w, status, authResponse{Token: access, User: user.Public()})
}

// refreshCookieOptions are applied on every Set and Delete of the refresh
// cookie so the expiring cookie carries the same attributes as the live one.
func (h *AuthHandler) refreshCookieOptions() []cookie.Option {
	return []cookie.Option{
		cookie.WithMaxAge(int(h.tokens.RefreshTTL().Seconds())),
		cookie.WithSameSite(http.SameSiteStrictMode),
		cookie.WithSecure(h.secureCookies),
	}
}
