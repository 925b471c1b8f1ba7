package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "tradefair/docs" // Swagger docs
	"tradefair/internal/delivery/http/controllers"
	"tradefair/internal/delivery/http/middleware"
	"tradefair/internal/domain"
)

// SwaggerPrefix is served without the API key.
const SwaggerPrefix = "/swagger/"

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	Profiles     *controllers.ProfileController
	Speakers     *controllers.SpeakerController
	Venue        *controllers.VenueController
	Conferences  *controllers.ConferenceController
	Registration *controllers.RegistrationController
	Statistics   *controllers.StatisticsController
	Agenda       *controllers.AgendaController
}

// RouterConfig holds the cross-cutting settings of the handler stack.
type RouterConfig struct {
	APIKey         string
	AllowedOrigins []string
	AuthLimit      middleware.RateLimitConfig
}

// NewRouter initializes the HTTP router with all application routes and wraps it in
// CORS, request logging and the API key check, outermost first.
func NewRouter(c Controllers, authn domain.Authenticator, cfg RouterConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(authn, logger)
	can := func(capability domain.Capability, next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireCapability(capability)(next))
	}
	limited := middleware.NewRateLimiter(cfg.AuthLimit, logger).Limit

	// Auth
	mux.HandleFunc("POST /auth/signup", limited(c.Auth.SignUp))
	mux.HandleFunc("POST /auth/signin", limited(c.Auth.SignIn))
	mux.HandleFunc("POST /auth/password-reset", limited(c.Auth.RequestPasswordReset))
	mux.HandleFunc("POST /auth/password-reset/confirm", limited(c.Auth.ConfirmPasswordReset))
	mux.HandleFunc("GET /auth/email-exists", c.Auth.CheckEmailExists)
	mux.HandleFunc("POST /auth/signout", auth(c.Auth.SignOut))
	mux.HandleFunc("GET /auth/session", auth(c.Auth.Session))
	mux.HandleFunc("GET /auth/user", auth(c.Auth.User))
	mux.HandleFunc("PATCH /auth/user", auth(c.Auth.UpdateUser))
	mux.HandleFunc("GET /auth/permissions", auth(c.Auth.Permissions))
	mux.HandleFunc("DELETE /auth/account", auth(c.Auth.DeleteAccount))

	// Profiles
	mux.HandleFunc("GET /profiles/me", auth(c.Profiles.GetMe))
	mux.HandleFunc("PATCH /profiles/me", auth(c.Profiles.UpdateMe))
	mux.HandleFunc("GET /profiles", can(domain.CapViewAllProfiles, c.Profiles.List))
	mux.HandleFunc("PATCH /profiles/{userID}/role", can(domain.CapViewAllProfiles, c.Profiles.ChangeRole))

	// Speakers
	mux.HandleFunc("GET /speakers", auth(c.Speakers.List))
	mux.HandleFunc("GET /speakers/{speakerID}", auth(c.Speakers.Get))
	mux.HandleFunc("POST /speakers", can(domain.CapManageConferences, c.Speakers.Create))
	mux.HandleFunc("PATCH /speakers/{speakerID}", can(domain.CapManageConferences, c.Speakers.Update))
	mux.HandleFunc("DELETE /speakers/{speakerID}", can(domain.CapManageConferences, c.Speakers.Delete))

	// Rooms, time slots and availability
	mux.HandleFunc("GET /rooms", auth(c.Venue.ListRooms))
	mux.HandleFunc("POST /rooms", can(domain.CapManageConferences, c.Venue.CreateRoom))
	mux.HandleFunc("GET /rooms/{roomID}/availability", auth(c.Venue.RoomAvailability))
	mux.HandleFunc("GET /rooms/{roomID}/conferences", auth(c.Conferences.ListByRoom))
	mux.HandleFunc("GET /time-slots", auth(c.Venue.ListTimeSlots))
	mux.HandleFunc("POST /time-slots", can(domain.CapManageConferences, c.Venue.CreateTimeSlot))
	mux.HandleFunc("GET /availability", auth(c.Venue.CheckAvailability))

	// Conferences
	mux.HandleFunc("GET /conferences", auth(c.Conferences.List))
	mux.HandleFunc("GET /conferences/{conferenceID}", auth(c.Conferences.Get))
	mux.HandleFunc("POST /conferences", can(domain.CapManageConferences, c.Conferences.Create))
	mux.HandleFunc("POST /conferences/import", can(domain.CapManageConferences, c.Agenda.Import))
	// Sponsors reach Update too; the service checks ownership.
	mux.HandleFunc("PUT /conferences/{conferenceID}", auth(c.Conferences.Update))
	mux.HandleFunc("DELETE /conferences/{conferenceID}", can(domain.CapManageConferences, c.Conferences.Delete))
	mux.HandleFunc("GET /conferences/{conferenceID}/registrations", can(domain.CapManageConferences, c.Conferences.ListRegistrations))

	// Registrations
	mux.HandleFunc("GET /registrations", auth(c.Registration.ListMine))
	mux.HandleFunc("POST /registrations", can(domain.CapBookConferences, c.Registration.Register))
	mux.HandleFunc("POST /registrations/replace", can(domain.CapBookConferences, c.Registration.Replace))
	mux.HandleFunc("DELETE /registrations/{conferenceID}", can(domain.CapBookConferences, c.Registration.Unregister))
	mux.HandleFunc("GET /registrations/conflicts", can(domain.CapBookConferences, c.Registration.CheckConflict))
	mux.HandleFunc("GET /registrations/conferences", auth(c.Registration.ConferencesWithStatus))
	mux.HandleFunc("GET /registrations/schedule", can(domain.CapViewSchedule, c.Registration.Schedule))

	// Statistics
	mux.HandleFunc("GET /statistics/dashboard", can(domain.CapViewDashboard, c.Statistics.Dashboard))
	mux.HandleFunc("GET /statistics/rooms", can(domain.CapViewDashboard, c.Statistics.RoomUtilization))
	mux.HandleFunc("GET /statistics/registrations-by-day", can(domain.CapViewDashboard, c.Statistics.RegistrationsByDay))
	mux.HandleFunc("GET /statistics/top-conferences", can(domain.CapViewDashboard, c.Statistics.TopConferences))
	mux.HandleFunc("GET /statistics/conferences", can(domain.CapViewDashboard, c.Statistics.ConferenceCounts))
	mux.HandleFunc("GET /statistics/sponsor", can(domain.CapViewSponsorDashboard, c.Statistics.Sponsor))

	// Swagger
	mux.Handle(SwaggerPrefix, httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.APIKey(cfg.APIKey, []string{SwaggerPrefix}, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	return handler
}
