package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storeforms-backend/config"
	"storeforms-backend/internal/delivery/http/middleware"
	v1 "storeforms-backend/internal/delivery/http/v1"
	"storeforms-backend/internal/gateway"
	memcache "storeforms-backend/internal/infrastructure/cache"
	"storeforms-backend/internal/infrastructure/sessionstore"
	"storeforms-backend/internal/usecase"
	"storeforms-backend/pkg/logger"
	"storeforms-backend/pkg/storage"
	"storeforms-backend/pkg/utils"
	"storeforms-backend/pkg/validator"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Session store (In-Memory)
	sessions := sessionstore.NewStore(cfg.SessionTTL, cfg.SessionCleanupInterval)

	// Read cache for upstream category lists
	memCache := memcache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// --- Upstream Service Clients ---
	apiClient := gateway.NewClient(cfg.CommerceAPIURL, cfg.CommerceAPIKey, cfg.CommerceAPITimeout)
	orderClient := gateway.NewOrderClient(apiClient)
	productClient := gateway.NewProductClient(apiClient)
	catalogClient := gateway.NewCatalogClient(apiClient)

	// --- Storage Module (R2) ---
	r2Storage, err := storage.NewR2Storage(
		context.Background(),
		cfg.R2AccountID,
		cfg.R2AccessKeyID,
		cfg.R2AccessKeySecret,
		cfg.R2BucketName,
		cfg.R2PublicURL,
		cfg.R2UploadTimeout,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
	}
	uploadHandler := v1.NewUploadHandler(r2Storage, cfg.MaxUploadSizeMB, cfg.MaxUploadFiles)

	// --- Form Module ---
	wizardUC := usecase.NewWizardUsecase(validator.NewDefaultValidator())
	variantUC := usecase.NewVariantUsecase()
	formUC := usecase.NewFormUsecase(sessions, wizardUC, variantUC, orderClient, productClient)
	formHandler := v1.NewFormHandler(formUC)
	variantHandler := v1.NewVariantHandler(formUC)

	// --- Catalog Module (cached upstream proxies) ---
	catalogHandler := v1.NewCatalogHandler(catalogClient, catalogClient, memCache, cfg.CacheCategoryTTL)

	// Set up Router
	mux := http.NewServeMux()

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}

	// Form Sessions
	mux.Handle("POST /api/v1/forms/checkout", protected(formHandler.CreateCheckoutSession))
	mux.Handle("POST /api/v1/forms/product", protected(formHandler.CreateProductSession))
	mux.Handle("GET /api/v1/forms/{id}", protected(formHandler.GetSession))
	mux.Handle("PUT /api/v1/forms/{id}/fields", protected(formHandler.UpdateFields))

	// Wizard Transitions
	mux.Handle("POST /api/v1/forms/{id}/advance", protected(formHandler.Advance))
	mux.Handle("POST /api/v1/forms/{id}/retreat", protected(formHandler.Retreat))
	mux.Handle("POST /api/v1/forms/{id}/jump", protected(formHandler.JumpTo))

	// Variant Matrix
	mux.Handle("POST /api/v1/forms/{id}/attributes/toggle", protected(variantHandler.ToggleAttribute))
	mux.Handle("POST /api/v1/forms/{id}/attributes", protected(variantHandler.AddCustomAttribute))
	mux.Handle("POST /api/v1/forms/{id}/variants/generate", protected(variantHandler.Generate))
	mux.Handle("PATCH /api/v1/forms/{id}/variants/{variantId}", protected(variantHandler.Override))
	mux.Handle("DELETE /api/v1/forms/{id}/variants/{variantId}", protected(variantHandler.Remove))
	mux.Handle("DELETE /api/v1/forms/{id}/variants", protected(variantHandler.Clear))

	// Submission
	mux.Handle("POST /api/v1/forms/{id}/submit", protected(formHandler.Submit))

	// Catalog (categories and payment methods public, addresses protected)
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.ListCategories)
	mux.HandleFunc("GET /api/v1/payment-methods", catalogHandler.ListPaymentMethods)
	mux.Handle("GET /api/v1/addresses", protected(catalogHandler.ListAddresses))

	// Uploads
	mux.Handle("POST /api/v1/upload", protected(uploadHandler.UploadFile))
	mux.Handle("POST /api/v1/upload/batch", protected(uploadHandler.UploadBatch))
	mux.Handle("DELETE /api/v1/upload", protected(uploadHandler.DeleteFile))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitPerSecond),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart("storeforms-backend", "1.0.0", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop("storeforms-backend")
}
