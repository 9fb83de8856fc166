package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/config"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/database"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/handlers"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/logger"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/media"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/metrics"
	customMiddleware "github.com/Madhav-Gupta-28/marketplace-backend-go/middleware"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/routes"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/services"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/utils"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("marketplace-backend", cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	client, db, err := database.ConnectDB(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn("mongo disconnect failed", slog.String("error", err.Error()))
		}
	}()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	store := newMediaStore(cfg.Media, log)
	mediaManager := media.NewManager(store, log, m)

	products := database.NewProductStore(db)
	orders := database.NewOrderStore(db)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	accountSvc := services.NewAccountService(database.NewUserStore(db), tokens)
	reviewSvc := services.NewReviewService(
		products,
		services.NewOrderLinkage(orders, cfg.Review.RequireOrderOwner),
		database.NewPublicReviewStore(db),
		log, m, cfg.Review.MaxAttempts,
	)
	orderSvc := services.NewOrderService(orders, database.NewCartStore(db), products, log)

	mediaIndex := database.NewMediaIndex(db)
	productSvc := services.NewCatalogService[models.Product](products, mediaManager, mediaIndex, "product", "products", log)
	eventSvc := services.NewCatalogService[models.Event](
		database.NewCollection[models.Event](db, database.EventsCollection, "event"), mediaManager, mediaIndex, "event", "events", log)
	blogSvc := services.NewCatalogService[models.Blog](
		database.NewCollection[models.Blog](db, database.BlogsCollection, "blog"), mediaManager, mediaIndex, "blog", "blogs", log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewRequestValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(log)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.RequestLogger(log))
	e.Use(customMiddleware.Metrics(m))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.Media.MaxUploadBytes)))

	routes.SetupRoutes(e, routes.Handlers{
		Auth:     handlers.NewAuthHandler(accountSvc),
		Products: handlers.NewProductHandler(productSvc, cfg.Media.MaxUploadBytes),
		Events:   handlers.NewEventHandler(eventSvc, cfg.Media.MaxUploadBytes),
		Blogs:    handlers.NewBlogHandler(blogSvc, cfg.Media.MaxUploadBytes),
		Reviews:  handlers.NewReviewHandler(reviewSvc, accountSvc),
		Orders:   handlers.NewOrderHandler(orderSvc),
	}, tokens, reg)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("port", cfg.Port), slog.String("media_backend", cfg.Media.Backend))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newMediaStore(cfg config.MediaConfig, log *slog.Logger) media.Store {
	if cfg.Backend == "cloudinary" {
		return media.NewCloudinaryStore(media.CloudinaryConfig{
			CloudName: cfg.CloudName,
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
		}, log)
	}
	return media.NewMemoryStore("http://localhost/media")
}

// bodyLimit allows a request to carry a handful of maximum-size files.
func bodyLimit(maxUpload int64) string {
	const files = 8
	mb := maxUpload * files / (1 << 20)
	if mb < 1 {
		mb = 1
	}
	return strconv.FormatInt(mb, 10) + "M"
}
