package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/playasoft/camp-registration-api/internal/config"
	"github.com/playasoft/camp-registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newSecuredTestAPI registers one operation that declares the cookie
// security scheme and one that declares nothing, with the auth
// middleware installed. reached reports whether the secured handler ran.
func newSecuredTestAPI(t *testing.T, handler *AuthHandler) (humatest.TestAPI, *bool) {
	t.Helper()

	_, api := humatest.New(t)
	api.UseMiddleware(handler.Middleware(api))

	reached := false
	huma.Register(api, huma.Operation{
		OperationID:   "ping",
		Method:        http.MethodGet,
		Path:          "/ping",
		DefaultStatus: http.StatusOK,
		Security:      []map[string][]string{{"cookieAuth": {}}},
	}, func(ctx context.Context, input *struct{}) (*struct{}, error) {
		reached = true
		return &struct{}{}, nil
	})
	huma.Register(api, huma.Operation{
		OperationID:   "open",
		Method:        http.MethodGet,
		Path:          "/open",
		DefaultStatus: http.StatusOK,
	}, func(ctx context.Context, input *struct{}) (*struct{}, error) {
		return &struct{}{}, nil
	})
	return api, &reached
}

func TestMiddleware_SlidingSession(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil, nil)

	signToken := func(expiresIn time.Duration) string {
		claims := jwt.MapClaims{
			"user_id": uint(1),
			"exp":     time.Now().Add(expiresIn).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))
		return tokenString
	}

	t.Run("TokenRenewed", func(t *testing.T) {
		// Less than half of TokenDuration remains: a fresh cookie is set.
		tokenString := signToken(11 * time.Hour)
		api, _ := newSecuredTestAPI(t, handler)

		resp := api.Get("/ping", "Cookie: auth_token="+tokenString)
		if resp.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", resp.Code)
		}

		found := false
		for _, c := range resp.Result().Cookies() {
			if c.Name == "auth_token" {
				found = true
				if c.Value == tokenString {
					t.Errorf("expected new token value, but got the old one")
				}
				break
			}
		}
		if !found {
			t.Errorf("expected new auth_token cookie to be set")
		}
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		tokenString := signToken(13 * time.Hour)
		api, _ := newSecuredTestAPI(t, handler)

		resp := api.Get("/ping", "Cookie: auth_token="+tokenString)
		if resp.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", resp.Code)
		}

		for _, c := range resp.Result().Cookies() {
			if c.Name == "auth_token" {
				t.Errorf("did not expect a new auth_token cookie to be set")
			}
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		api, reached := newSecuredTestAPI(t, handler)

		resp := api.Get("/ping")
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %v", resp.Code)
		}
		if *reached {
			t.Error("handler must not run without a token")
		}
	})

	t.Run("PublicOperationUnaffected", func(t *testing.T) {
		api, _ := newSecuredTestAPI(t, handler)

		resp := api.Get("/open")
		if resp.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", resp.Code)
		}
	})
}

func TestMiddleware_APIKey(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.User{}, &models.APIKey{})

	user := models.User{DiscordID: "relay", Username: "relay"}
	db.Create(&user)
	db.Create(&models.APIKey{UserID: user.ID, Key: "relay-key", Name: "webhook relay"})
	expired := time.Now().Add(-time.Hour)
	db.Create(&models.APIKey{UserID: user.ID, Key: "stale-key", Name: "old relay", ExpiresAt: &expired})

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db, nil)

	t.Run("ValidKey", func(t *testing.T) {
		api, reached := newSecuredTestAPI(t, handler)

		resp := api.Get("/ping", "X-API-KEY: relay-key")
		if resp.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", resp.Code)
		}
		if !*reached {
			t.Error("expected handler to run with a valid API key")
		}

		var key models.APIKey
		db.Where("key = ?", "relay-key").First(&key)
		if key.LastUsedAt == nil {
			t.Error("expected last_used_at to be stamped")
		}
	})

	t.Run("ExpiredKey", func(t *testing.T) {
		api, reached := newSecuredTestAPI(t, handler)

		resp := api.Get("/ping", "X-API-KEY: stale-key")
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %v", resp.Code)
		}
		if *reached {
			t.Error("handler must not run with an expired API key")
		}
	})
}
