package portal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/shmhost/client-portal/internal/config"
	"github.com/shmhost/client-portal/internal/http/handlers/appconfig"
	"github.com/shmhost/client-portal/internal/http/handlers/auth/login"
	"github.com/shmhost/client-portal/internal/http/handlers/auth/logout"
	"github.com/shmhost/client-portal/internal/http/handlers/auth/me"
	"github.com/shmhost/client-portal/internal/http/handlers/auth/register"
	"github.com/shmhost/client-portal/internal/http/handlers/auth/telegramauth"
	"github.com/shmhost/client-portal/internal/http/handlers/order/catalog"
	ordercreate "github.com/shmhost/client-portal/internal/http/handlers/order/create"
	"github.com/shmhost/client-portal/internal/http/handlers/payment/autopayremove"
	"github.com/shmhost/client-portal/internal/http/handlers/payment/forecast"
	"github.com/shmhost/client-portal/internal/http/handlers/payment/paymentlist"
	"github.com/shmhost/client-portal/internal/http/handlers/payment/paysystems"
	"github.com/shmhost/client-portal/internal/http/handlers/payment/topup"
	profilepassword "github.com/shmhost/client-portal/internal/http/handlers/profile/password"
	profileread "github.com/shmhost/client-portal/internal/http/handlers/profile/read"
	profileupdate "github.com/shmhost/client-portal/internal/http/handlers/profile/update"
	promoapply "github.com/shmhost/client-portal/internal/http/handlers/promo/apply"
	tglinkread "github.com/shmhost/client-portal/internal/http/handlers/telegramlink/read"
	tglinkupdate "github.com/shmhost/client-portal/internal/http/handlers/telegramlink/update"
	uslist "github.com/shmhost/client-portal/internal/http/handlers/userservice/list"
	usremove "github.com/shmhost/client-portal/internal/http/handlers/userservice/remove"
	usstop "github.com/shmhost/client-portal/internal/http/handlers/userservice/stop"
	withdrawlist "github.com/shmhost/client-portal/internal/http/handlers/withdraw/list"
	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/services/ordering"
	"github.com/shmhost/client-portal/internal/services/payments"
	"github.com/shmhost/client-portal/internal/services/userservices"
	"github.com/shmhost/client-portal/internal/session"
	"github.com/shmhost/client-portal/internal/shm"
)

// RegisterRoutes регистрирует все маршруты портала.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, api *shm.Client, sessions *session.Manager, orderingService *ordering.Service, paymentService *payments.Service, userServicesService *userservices.Service) {
	cookieName := cfg.Session.CookieName

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
		middlewarectx.SessionMiddleware(sessions, cookieName, logger),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/config", appconfig.New(cfg).ServeHTTP)
		r.Post("/auth/login", login.New(logger, api, sessions, cookieName).ServeHTTP)
		r.Post("/auth/register", register.New(logger, api).ServeHTTP)
		r.Post("/auth/telegram", telegramauth.New(logger, api, sessions, cookieName).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger, sessions, cookieName).ServeHTTP)
		r.Get("/auth/me", me.New(logger, api, sessions, cookieName).ServeHTTP)

		// Группа с обязательной сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireSession(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/order/catalog", catalog.New(logger, orderingService).ServeHTTP)
			r.Post("/order", ordercreate.New(logger, orderingService).ServeHTTP)

			r.Get("/services", uslist.New(logger, userServicesService).ServeHTTP)
			r.Post("/services/{user_service_id}/stop", usstop.New(logger, userServicesService).ServeHTTP)
			r.Delete("/services/{user_service_id}", usremove.New(logger, userServicesService).ServeHTTP)

			r.Get("/pay/systems", paysystems.New(logger, paymentService).ServeHTTP)
			r.Post("/pay/topup", topup.New(logger, paymentService).ServeHTTP)
			r.Delete("/pay/autopay/{name}", autopayremove.New(logger, paymentService).ServeHTTP)
			r.Get("/pay/history", paymentlist.New(logger, api).ServeHTTP)
			r.Get("/pay/forecast", forecast.New(logger, api).ServeHTTP)

			r.Get("/withdrawals", withdrawlist.New(logger, api).ServeHTTP)

			r.Get("/profile", profileread.New(logger, api, sessions).ServeHTTP)
			r.Post("/profile", profileupdate.New(logger, api, sessions).ServeHTTP)
			r.Post("/profile/passwd", profilepassword.New(logger, api).ServeHTTP)

			r.Post("/promo", promoapply.New(logger, api).ServeHTTP)

			r.Get("/telegram", tglinkread.New(logger, api).ServeHTTP)
			r.Post("/telegram", tglinkupdate.New(logger, api).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
