package auth

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Middleware enforces authentication on every operation that declares a
// security requirement. Machine clients (the payment webhook relay)
// present an API key header; everyone else presents the JWT session
// cookie, which is re-issued once it runs past half its duration.
func (h *AuthHandler) Middleware(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if len(ctx.Operation().Security) == 0 {
			next(ctx)
			return
		}

		if apiKey := ctx.Header("X-API-KEY"); apiKey != "" {
			if userID, err := h.AuthorizeAPIKey(ctx.Context(), apiKey); err == nil {
				next(huma.WithValue(ctx, UserIDKey, userID))
				return
			}
		}

		cookieHeader := ctx.Header("Cookie")
		userID, err := h.Authorize(ctx.Context(), cookieHeader)
		if err != nil {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized", err)
			return
		}

		h.refreshSession(ctx, cookieValue(cookieHeader, "auth_token"), userID)
		next(huma.WithValue(ctx, UserIDKey, userID))
	}
}

// refreshSession sets a fresh session cookie when less than half of
// TokenDuration remains. The token was already verified by Authorize.
func (h *AuthHandler) refreshSession(ctx huma.Context, tokenString string, userID uint) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return
	}
	if time.Until(time.Unix(int64(exp), 0)) >= TokenDuration/2 {
		return
	}

	newToken, err := h.GenerateToken(userID)
	if err != nil {
		return
	}
	cookie := http.Cookie{
		Name:     "auth_token",
		Value:    newToken,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}
	ctx.AppendHeader("Set-Cookie", cookie.String())
}
