package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(r *chi.Mux, eventHandler *EventHandler, registrationHandler *RegistrationHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("HR Events API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	// Events
	huma.Post(api, "/api/events", eventHandler.HandleCreateEvent, secured)
	huma.Get(api, "/api/events", eventHandler.HandleListEvents, secured)
	huma.Get(api, "/api/events/upcoming", eventHandler.HandleUpcomingEvents, secured)
	huma.Get(api, "/api/events/{event_id}", eventHandler.HandleGetEvent, secured)
	huma.Put(api, "/api/events/{event_id}", eventHandler.HandleUpdateEvent, secured)
	huma.Delete(api, "/api/events/{event_id}", eventHandler.HandleDeleteEvent, secured)
	huma.Post(api, "/api/events/{event_id}/publish", eventHandler.HandlePublishEvent, secured)
	huma.Post(api, "/api/events/{event_id}/cancel", eventHandler.HandleCancelEvent, secured)

	// Recurring series
	huma.Post(api, "/api/events/{event_id}/recurring/update", eventHandler.HandleUpdateSeries, secured)
	huma.Post(api, "/api/events/{event_id}/recurring/cancel", eventHandler.HandleCancelSeries, secured)

	// Registrations
	huma.Post(api, "/api/event-registrations/register", registrationHandler.HandleRegister, secured)
	huma.Post(api, "/api/event-registrations/{registration_id}/cancel", registrationHandler.HandleCancelRegistration, secured)
	huma.Post(api, "/api/event-registrations/check-conflicts", registrationHandler.HandleCheckConflicts, secured)
	huma.Get(api, "/api/event-registrations/capacity/{event_id}", registrationHandler.HandleCapacity, secured)
	huma.Get(api, "/api/event-registrations/event/{event_id}", registrationHandler.HandleListRegistrations, secured)
}
