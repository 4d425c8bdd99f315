package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/ella-rises/membership-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth         *auth.AuthHandler
	Participants *ParticipantHandler
	Events       *EventHandler
	Registration *RegistrationHandler
	Milestones   *MilestoneHandler
	Donations    *DonationHandler
	Views        *ViewHandler
	Surveys      *SurveyHandler
}

// RegisterRoutes wires the form/redirect endpoints into capability-gated
// route groups and mounts the JSON read surface.
func RegisterRoutes(r *chi.Mux, h Handlers, logger *zap.Logger) {
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(h.Auth.ResolveIdentity)

	// Initialize Huma API
	config := huma.DefaultConfig("Ella Rises Membership API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.TokenCookieName,
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Post("/login", h.Auth.HandleLogin)
	r.Get("/logout", h.Auth.HandleLogout)
	r.Post("/createUser", h.Participants.HandleSignup)
	r.Post("/donate", h.Donations.HandleDonate)

	// Authenticated routes: a denied request is redirected to /login.
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthenticated)
		r.Post("/events/register/{templateId}", h.Registration.HandleRegisterByTemplate)
		r.Post("/events/registerOccurrence/{occurrenceId}", h.Registration.HandleRegisterByOccurrence)
		r.Post("/events/addDate", h.Events.HandleAddOccurrence)
		r.Post("/profile/deregister/{registrationId}", h.Registration.HandleDeregisterSelf)
		r.Post("/profile/edit", h.Participants.HandleProfileEdit)
		r.Post("/user/milestones/add", h.Milestones.HandleAddSelf)
	})

	// Elevated routes: a denied request gets a terminal 403.
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireElevated)
		r.Post("/admin/register-event", h.Registration.HandleAdminRegister)
		r.Post("/users/deregister/{registrationId}", h.Registration.HandleDeregisterAdmin)
		r.Post("/users/add", h.Participants.HandleAdminAdd)
		r.Post("/users/delete/{id}", h.Participants.HandleAdminDelete)
		r.Post("/participants/add", h.Participants.HandleAdminAdd)
		r.Post("/participants/delete/{id}", h.Participants.HandleAdminDelete)
		r.Post("/admin/milestones/add", h.Milestones.HandleAddAdmin)
		r.Post("/admin/milestones/edit/{id}", h.Milestones.HandleEditAdmin)
		r.Post("/admin/milestones/delete/{id}", h.Milestones.HandleDeleteAdmin)
		r.Post("/milestones/add", h.Milestones.HandleCreateDefinition)
		r.Post("/milestones/edit/{id}", h.Milestones.HandleEditDefinition)
		r.Post("/milestones/delete/{id}", h.Milestones.HandleDeleteDefinition)
		r.Post("/events/add", h.Events.HandleAddTemplate)
		r.Post("/events/edit/{id}", h.Events.HandleEditTemplate)
		r.Post("/events/delete/{id}", h.Events.HandleDeleteTemplate)
		r.Post("/admin/donations/add", h.Donations.HandleAdminAdd)
		r.Post("/admin/donations/edit/{id}", h.Donations.HandleAdminEdit)
		r.Post("/admin/donations/delete/{id}", h.Donations.HandleAdminDelete)
	})

	// JSON read surface. Capability checks run inside the handlers.
	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}
	huma.Get(api, "/events", h.Views.HandleListEvents, secured)
	huma.Get(api, "/events/calendarData/{templateId}", h.Views.HandleCalendarData, secured)
	huma.Get(api, "/milestones", h.Views.HandleListMilestones, secured)
	huma.Get(api, "/profile", h.Views.HandleProfile, secured)
	huma.Get(api, "/admin/donations", h.Views.HandleAdminDonations, secured)
	huma.Get(api, "/users/view/{id}", h.Views.HandleParticipantDetail, secured)
	huma.Get(api, "/surveys", h.Surveys.HandleListSurveys, secured)
	huma.Get(api, "/surveys/{id}", h.Surveys.HandleSurveyDetail, secured)
	huma.Get(api, "/surveyUser", h.Surveys.HandleMySurveys, secured)
	huma.Get(api, "/surveyUser/{id}", h.Surveys.HandleMySurveyDetail, secured)
}
