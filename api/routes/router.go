package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petadopt/petadopt-backend/api/controllers"
	"github.com/petadopt/petadopt-backend/api/middleware"
	"github.com/petadopt/petadopt-backend/internal/auth"
	"github.com/petadopt/petadopt-backend/internal/authz"
	"github.com/petadopt/petadopt-backend/internal/pets"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/enums"
	"github.com/petadopt/petadopt-backend/pkg/logger"
	"github.com/petadopt/petadopt-backend/pkg/metrics"
)

// Dependencies is the application context cmd/api builds once and hands to
// the router. Optional members may be nil.
type Dependencies struct {
	Config *config.Config
	Logger *logger.Logger

	DB    controllers.Pinger
	Redis controllers.Pinger // nil when sessions live in memory

	Sessions    middleware.SessionResolver
	Users       middleware.UserLoader
	RateLimiter middleware.RateLimitStore // nil disables auth rate limiting

	AuthService     auth.Service
	RegisterService auth.RegisterService
	PetService      pets.Service

	HTTPMetrics    *metrics.HTTPMetrics
	AuthMetrics    *metrics.AuthMetrics
	MetricsHandler http.Handler
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	trustedProxies, err := cfg.App.TrustedProxyPrefixes()
	if err != nil && logg != nil {
		logg.Error(context.Background(), "ignoring trusted proxies", err)
	}
	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	).WithTrustedProxies(trustedProxies)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	).WithTrustedProxies(trustedProxies)
	allowAdminSignup := cfg.AdminSignupAllowed()

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, deps.Sessions, deps.Users, logg))

		r.Get("/", controllers.Index(deps.PetService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(loginPolicy, deps.RateLimiter, deps.AuthMetrics, logg))
			r.Get("/login", controllers.AuthLoginForm())
			r.Post("/login", controllers.AuthLogin(deps.AuthService, cfg.Session, deps.AuthMetrics, logg))
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(registerPolicy, deps.RateLimiter, deps.AuthMetrics, logg))
			r.Get("/register", controllers.AuthRegisterForm(allowAdminSignup))
			r.Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, cfg.Session, allowAdminSignup, deps.AuthMetrics, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated(logg))

			logout := controllers.AuthLogout(deps.AuthService, cfg.Session, deps.AuthMetrics, logg)
			r.Get("/logout", logout)
			r.Post("/logout", logout)

			r.Get("/dashboard", controllers.Dashboard(deps.PetService, logg))
			r.Get("/dogs", controllers.SpeciesList(deps.PetService, enums.SpeciesDog, logg))
			r.Get("/cats", controllers.SpeciesList(deps.PetService, enums.SpeciesCat, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(authz.ForbiddenMessage(pets.ActionAdd), logg))
			r.Get("/pet/add", controllers.PetAddForm())
			r.Post("/pet/add", controllers.PetCreate(deps.PetService, logg))
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(authz.ForbiddenMessage(pets.ActionEdit), logg))
			r.Get("/pet/{id}/edit", controllers.PetEditForm(deps.PetService, logg))
			r.Post("/pet/{id}/edit", controllers.PetUpdate(deps.PetService, logg))
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(authz.ForbiddenMessage(pets.ActionDelete), logg))
			r.Post("/pet/{id}/delete", controllers.PetDelete(deps.PetService, logg))
		})
	})

	r.NotFound(controllers.NotFound(logg))

	return r
}
