// Copyright (c) 2026 Mindfolio. All rights reserved.

package auth

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	"github.com/mindfolio/mindfolio-server/internal/platform/constants"
	requestutil "github.com/mindfolio/mindfolio-server/internal/platform/request"
	"github.com/mindfolio/mindfolio-server/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public authentication endpoints. These sit
// outside the authenticated group; identity comes from credentials or
// the refresh cookie, not a bearer token.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/register", handler.register)
	router.Post("/auth/login", handler.login)
	router.Post("/auth/refresh", handler.refresh)
	router.Post("/auth/logout", handler.logout)
	router.Post("/auth/logout/all", handler.logoutAll)
}

func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	input := RegisterInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	input := LoginInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.UserAgent = request.UserAgent()
	input.IPAddress = clientIP(request)

	session, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)
	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int(constants.AccessTokenTTL / time.Second),
		FieldUser:        session.User,
	})
}

func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("missing refresh token"))
		return
	}

	session, err := handler.service.RefreshSession(
		request.Context(), cookie.Value, request.UserAgent(), clientIP(request),
	)
	if err != nil {
		clearRefreshCookie(writer)
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)
	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int(constants.AccessTokenTTL / time.Second),
	})
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		if err := handler.service.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	clearRefreshCookie(writer)
	respond.NoContent(writer)
}

func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("missing refresh token"))
		return
	}

	if err := handler.service.LogoutAll(request.Context(), cookie.Value); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearRefreshCookie(writer)
	respond.NoContent(writer)
}

func setRefreshCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clientIP extracts the caller's address, preferring proxy headers.
func clientIP(request *http.Request) string {
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := request.Header.Get(constants.HeaderXRealIP); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
