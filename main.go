package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopcore/storefront-api/cart"
	"github.com/shopcore/storefront-api/config"
	orderControllers "github.com/shopcore/storefront-api/controllers/order"
	"github.com/shopcore/storefront-api/inventory"
	"github.com/shopcore/storefront-api/logger"
	"github.com/shopcore/storefront-api/middleware"
	"github.com/shopcore/storefront-api/models"
	"github.com/shopcore/storefront-api/order"
	"github.com/shopcore/storefront-api/routes"
	"github.com/shopcore/storefront-api/shutdown"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	defer log.Sync()

	db := initDatabase(cfg, log)

	if err := db.AutoMigrate(
		&models.Product{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
		&models.GuestSession{},
	); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	guard := inventory.NewGuard(db)
	carts := cart.NewStore(db, guard, log.Named("cart"))
	hub := orderControllers.NewHub(log.Named("ws"))
	orders := order.NewFactory(db, guard, carts, hub, log.Named("order"))

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Guest-Session"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		DB:     db,
		Carts:  carts,
		Orders: orders,
		Hub:    hub,
		Config: cfg,
		Log:    log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("server stopped")
}

// initDatabase opens the GORM connection to Postgres.
func initDatabase(cfg config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("db connection failed", zap.Error(err))
	}
	return db
}
