package server

import (
	"net/http"

	"github.com/garrettladley/moyo/internal/server/handler"
	servermw "github.com/garrettladley/moyo/internal/server/middleware"
	analyticssvc "github.com/garrettladley/moyo/internal/service/analytics"
	"github.com/garrettladley/moyo/internal/service/auth"
	"github.com/garrettladley/moyo/internal/service/healthfactor"
	"github.com/garrettladley/moyo/internal/service/insight"
	"github.com/garrettladley/moyo/internal/service/medication"
	"github.com/garrettladley/moyo/internal/service/notification"
	"github.com/garrettladley/moyo/internal/service/reading"
	"github.com/garrettladley/moyo/internal/service/token"
	"github.com/garrettladley/moyo/internal/service/user"
	"github.com/garrettladley/moyo/internal/storage"
	"github.com/garrettladley/moyo/internal/xhttp/middleware"
)

// Services is everything the HTTP surface is built from.
type Services struct {
	Auth          auth.Service
	Tokens        token.Service
	Readings      reading.Service
	HealthFactors healthfactor.Service
	Medications   medication.Service
	Insights      insight.Service
	Notifications notification.Service
	Users         user.Service
	Analytics     analyticssvc.Service

	// Limiter guards the unauthenticated auth routes per IP.
	Limiter storage.RateLimiter
	Checks  map[string]handler.Pinger
}

// NewMux registers every route. Process-wide middleware is applied by the
// caller.
func NewMux(s Services) *http.ServeMux {
	var (
		authH   = handler.NewAuth(s.Auth)
		health  = handler.NewHealth(s.Checks)
		notifH  = handler.NewNotifications(s.Notifications)
		stream  = handler.NewStream(s.Notifications)
		trends  = handler.NewAnalytics(s.Analytics)
		usersH  = handler.NewUsers(s.Users)
		reads   = handler.NewReadings(s.Readings, handler.Self)
		factors = handler.NewHealthFactors(s.HealthFactors, handler.Self)
		meds    = handler.NewMedications(s.Medications, handler.SelfOrAdmin)
		ins     = handler.NewInsights(s.Insights, handler.Self)

		adminReads   = handler.NewReadings(s.Readings, handler.Everyone)
		adminFactors = handler.NewHealthFactors(s.HealthFactors, handler.Everyone)
		adminIns     = handler.NewInsights(s.Insights, handler.Everyone)
	)

	public := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, servermw.RateLimit(s.Limiter))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.VersionCheck, servermw.BearerAuth(s.Tokens))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.VersionCheck, servermw.BearerAuth(s.Tokens), servermw.RequireAdmin)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.HandleHealth)

	mux.Handle("POST /api/auth/register", public(authH.HandleRegister))
	mux.Handle("POST /api/token", public(authH.HandleLogin))
	mux.Handle("POST /api/token/refresh", public(authH.HandleRefresh))
	mux.Handle("POST /api/auth/logout", public(authH.HandleLogout))
	mux.Handle("GET /api/auth/profile", authed(authH.HandleGetProfile))
	mux.Handle("PUT /api/auth/profile", authed(authH.HandleUpdateProfile))

	mux.Handle("GET /api/readings", authed(reads.HandleList))
	mux.Handle("POST /api/readings", authed(reads.HandleCreate))
	mux.Handle("GET /api/readings/classify", authed(reads.HandleClassify))
	mux.Handle("GET /api/readings/{id}", authed(reads.HandleGet))
	mux.Handle("PUT /api/readings/{id}", authed(reads.HandleUpdate))
	mux.Handle("DELETE /api/readings/{id}", authed(reads.HandleDelete))

	mux.Handle("GET /api/health-factors", authed(factors.HandleList))
	mux.Handle("POST /api/health-factors", authed(factors.HandleCreate))
	mux.Handle("GET /api/health-factors/{id}", authed(factors.HandleGet))
	mux.Handle("PUT /api/health-factors/{id}", authed(factors.HandleUpdate))
	mux.Handle("DELETE /api/health-factors/{id}", authed(factors.HandleDelete))

	mux.Handle("GET /api/medications", authed(meds.HandleList))
	mux.Handle("POST /api/medications", authed(meds.HandleCreate))
	mux.Handle("GET /api/medications/active", authed(meds.HandleActive))
	mux.Handle("GET /api/medications/{id}", authed(meds.HandleGet))
	mux.Handle("PUT /api/medications/{id}", authed(meds.HandleUpdate))
	mux.Handle("DELETE /api/medications/{id}", authed(meds.HandleDelete))
	mux.Handle("POST /api/medications/{id}/log-dose", authed(meds.HandleLogDose))
	mux.Handle("GET /api/medication-logs", authed(meds.HandleListLogs))
	mux.Handle("POST /api/medication-logs", authed(meds.HandleCreateLog))
	mux.Handle("DELETE /api/medication-logs/{id}", authed(meds.HandleDeleteLog))

	mux.Handle("GET /api/insights", authed(ins.HandleList))
	mux.Handle("GET /api/insights/{id}", authed(ins.HandleGet))
	mux.Handle("POST /api/insights/{id}/mark-read", authed(ins.HandleMarkRead))

	mux.Handle("GET /api/notifications/preferences", authed(notifH.HandleGetPreferences))
	mux.Handle("PUT /api/notifications/preferences", authed(notifH.HandleUpdatePreferences))
	mux.Handle("GET /api/notifications/logs", authed(notifH.HandleListLogs))
	mux.Handle("GET /api/notifications/stream", authed(stream.HandleStream))

	mux.Handle("GET /api/analytics/trends", authed(trends.HandleTrends))
	mux.Handle("GET /api/analytics/correlations", authed(trends.HandleCorrelations))
	mux.Handle("GET /api/analytics/summary", authed(trends.HandleSummary))

	mux.Handle("GET /api/admin/users", admin(usersH.HandleList))
	mux.Handle("GET /api/admin/users/{id}", admin(usersH.HandleGet))
	mux.Handle("DELETE /api/admin/users/{id}", admin(usersH.HandleDelete))

	mux.Handle("GET /api/admin/readings", admin(adminReads.HandleList))
	mux.Handle("POST /api/admin/readings", admin(adminReads.HandleCreate))
	mux.Handle("GET /api/admin/readings/{id}", admin(adminReads.HandleGet))
	mux.Handle("PUT /api/admin/readings/{id}", admin(adminReads.HandleUpdate))
	mux.Handle("DELETE /api/admin/readings/{id}", admin(adminReads.HandleDelete))

	mux.Handle("GET /api/admin/health-factors", admin(adminFactors.HandleList))
	mux.Handle("POST /api/admin/health-factors", admin(adminFactors.HandleCreate))
	mux.Handle("GET /api/admin/health-factors/{id}", admin(adminFactors.HandleGet))
	mux.Handle("PUT /api/admin/health-factors/{id}", admin(adminFactors.HandleUpdate))
	mux.Handle("DELETE /api/admin/health-factors/{id}", admin(adminFactors.HandleDelete))

	mux.Handle("GET /api/admin/insights", admin(adminIns.HandleList))
	mux.Handle("POST /api/admin/insights", admin(adminIns.HandleCreate))
	mux.Handle("GET /api/admin/insights/{id}", admin(adminIns.HandleGet))
	mux.Handle("PUT /api/admin/insights/{id}", admin(adminIns.HandleUpdate))
	mux.Handle("DELETE /api/admin/insights/{id}", admin(adminIns.HandleDelete))

	return mux
}
