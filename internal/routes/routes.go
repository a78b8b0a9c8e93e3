// Package routes wires the HTTP handlers under /api/v1.
package routes

import (
	"net/http"

	"refnet/internal/handlers"
	"refnet/internal/middleware"
	"refnet/internal/ratelimit"
	"refnet/internal/services/commission"
	"refnet/internal/services/recharge"
	"refnet/internal/services/referral"
	"refnet/internal/services/user"
	"refnet/internal/services/wallet"
	"refnet/internal/services/withdrawal"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"
)

type Services struct {
	Users       user.Service
	Referrals   referral.Service
	Commissions commission.Service
	Wallets     wallet.Service
	Withdrawals withdrawal.Service
	Recharges   recharge.Service
}

type Options struct {
	JWTSecret string
	Logger    *zap.Logger
	// Limiter throttles /api/v1 per client IP when set.
	Limiter *ratelimit.Limiter
	Health  *handlers.HealthHandler
	Metrics http.Handler
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, svc Services, opts Options) {
	if opts.Health != nil {
		app.Get("/health", opts.Health.HealthCheck)
	}
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics))
	}

	userHandler := handlers.NewUserHandler(svc.Users)
	referralHandler := handlers.NewReferralHandler(svc.Referrals)
	commissionHandler := handlers.NewCommissionHandler(svc.Commissions)
	walletHandler := handlers.NewWalletHandler(svc.Wallets)
	withdrawalHandler := handlers.NewWithdrawalHandler(svc.Withdrawals)
	rechargeHandler := handlers.NewRechargeHandler(svc.Recharges)

	api := app.Group("/api/v1")
	if opts.Limiter != nil {
		api.Use(middleware.RateLimit(opts.Limiter, opts.Logger))
	}
	api.Use(middleware.NewAuthMiddleware(opts.JWTSecret, opts.Logger).Handler)

	// Collaborating services
	internal := api.Group("/internal", middleware.RequireInternal)
	internal.Post("/users", userHandler.Register)
	internal.Post("/orders/completed", commissionHandler.OrderCompleted)

	// Caller's own account
	me := api.Group("/me")
	me.Get("/", userHandler.GetMe)
	me.Post("/review", userHandler.SubmitForReview)
	me.Get("/network", referralHandler.MyNetwork)
	me.Get("/wallet", walletHandler.GetBalance)
	me.Get("/wallet/transactions", walletHandler.GetTransactions)
	me.Post("/withdrawals", withdrawalHandler.Create)
	me.Get("/withdrawals", withdrawalHandler.ListMine)
	me.Post("/recharges", rechargeHandler.Create)
	me.Get("/recharges", rechargeHandler.ListMine)

	admin := api.Group("/admin", middleware.RequireAdmin)
	admin.Get("/users/:id", userHandler.GetUser)
	admin.Post("/users/:id/activate", userHandler.Activate)
	admin.Get("/users/:id/network", referralHandler.UserNetwork)
	admin.Get("/users/:id/wallet/reconcile", walletHandler.Reconcile)
	admin.Post("/wallet-transactions/:id/reverse", walletHandler.Reverse)

	admin.Get("/commission-configs", commissionHandler.ListConfigs)
	admin.Put("/commission-configs/:level", commissionHandler.UpsertConfig)
	admin.Delete("/commission-configs/:level", commissionHandler.DeleteConfig)
	admin.Get("/orders/:orderId/commissions", commissionHandler.OrderCommissions)

	admin.Get("/withdrawals", withdrawalHandler.List)
	admin.Get("/withdrawals/:id", withdrawalHandler.Get)
	admin.Post("/withdrawals/:id/approve", withdrawalHandler.Approve)
	admin.Post("/withdrawals/:id/reject", withdrawalHandler.Reject)

	admin.Get("/recharges", rechargeHandler.List)
	admin.Get("/recharges/:id", rechargeHandler.Get)
	admin.Post("/recharges/:id/approve", rechargeHandler.Approve)
	admin.Post("/recharges/:id/reject", rechargeHandler.Reject)
}
