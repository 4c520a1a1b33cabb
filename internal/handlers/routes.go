package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/playasoft/camp-registration-api/internal/auth"
)

func RegisterRoutes(r *chi.Mux, authHandler *auth.AuthHandler, catalogHandler *CatalogHandler, registrationHandler *RegistrationHandler, paymentHandler *PaymentHandler, apiKeyHandler *APIKeyHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Camp Registration API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)
	api.UseMiddleware(authHandler.Middleware(api))

	// The middleware rejects unauthenticated calls to every operation
	// registered with this option.
	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/discord/login", authHandler.HandleLogin)
	r.Get("/auth/discord/callback", authHandler.HandleCallback)

	// Catalog reads
	huma.Get(api, "/camping-options", catalogHandler.HandleListCampingOptions)
	huma.Get(api, "/camping-options/{id}/fields", catalogHandler.HandleListCustomFields)
	huma.Get(api, "/job-categories", catalogHandler.HandleListJobCategories)
	huma.Get(api, "/shifts", catalogHandler.HandleListShifts)

	// Authenticated routes
	huma.Get(api, "/me", authHandler.HandleMe, secured)
	huma.Put(api, "/me/profile", authHandler.HandleUpdateProfile, secured)
	huma.Get(api, "/jobs", catalogHandler.HandleListJobs, secured)
	huma.Post(api, "/registrations", registrationHandler.HandleSubmit, secured)
	huma.Get(api, "/registrations/me", registrationHandler.HandleMyRegistration, secured)
	huma.Post(api, "/payments", paymentHandler.HandleInitiate, secured)
	huma.Post(api, "/payments/{reference}/confirm", paymentHandler.HandleConfirm, secured)
	huma.Post(api, "/api-keys", apiKeyHandler.HandleCreate, secured)
	huma.Get(api, "/api-keys", apiKeyHandler.HandleList, secured)
	huma.Delete(api, "/api-keys/{id}", apiKeyHandler.HandleDelete, secured)
}
