// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it via [utils.ValidateAndParseJWTToken], and — on success —
// stores the authenticated actor id in the request context under
// [utils.ActorCtxKey] before delegating to the next handler.
//
// Requests are rejected with HTTP 401 Unauthorized when the header is
// absent ([ErrEmptyAuthorizationHeader]), cannot be parsed as a bearer token
// ([ErrInvalidAuthorizationHeader], [ErrEmptyToken]), or when the token
// fails signature, issuer or expiration checks.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		token, err := getTokenFromAuthHeader(r)
		if err != nil {
			log.Warn().Err(err).Msg("unauthorized request")
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		actor, err := utils.ValidateAndParseJWTToken(token, h.settings.TokenSignKey, h.settings.TokenIssuer)
		if err != nil {
			log.Warn().Err(err).Msg("token validation failed")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := utils.WithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the raw bearer token from the
// "Authorization" header of r.
func getTokenFromAuthHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		return "", ErrInvalidAuthorizationHeader
	}
	if parts[1] == "" {
		return "", ErrEmptyToken
	}

	return parts[1], nil
}
