package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"webshop-service/internal/config"
	httpapi "webshop-service/internal/controllers/http"
	"webshop-service/internal/infra"
	"webshop-service/internal/infra/database"
	"webshop-service/internal/infra/rabbitmq"
	"webshop-service/internal/logging"
	"webshop-service/internal/notify"
	"webshop-service/internal/repository"
	"webshop-service/internal/repository/cache"
	"webshop-service/internal/repository/gormstore"
	"webshop-service/internal/repository/rest"
	"webshop-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type stores struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	profiles repository.ProfileRepository
}

func openStores(cfg config.Config) (stores, error) {
	if cfg.StoreDriver == config.DriverREST {
		client := infra.NewRestClient(cfg.StoreURL, cfg.StoreKey, cfg.StoreTimeout, cfg.StoreReadRetries)
		return stores{
			products: rest.NewProductRepository(client),
			carts:    rest.NewCartRepository(client),
			orders:   rest.NewOrderRepository(client),
			profiles: rest.NewProfileRepository(client),
		}, nil
	}

	db, err := database.Open(database.Options{
		Driver:          cfg.StoreDriver,
		DSN:             cfg.DatabaseDSN,
		MaxOpenConns:    100,
		MaxIdleConns:    20,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: time.Minute,
	})
	if err != nil {
		return stores{}, err
	}
	numbers, err := gormstore.NewOrderNumbers(cfg.NodeID)
	if err != nil {
		return stores{}, err
	}
	return stores{
		products: gormstore.NewProductRepository(db),
		carts:    gormstore.NewCartRepository(db),
		orders:   gormstore.NewOrderRepository(db, numbers),
		profiles: gormstore.NewProfileRepository(db),
	}, nil
}

func notificationSinks(cfg config.Config) []notify.Sink {
	var sinks []notify.Sink
	if cfg.NotifyWebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.NotifyWebhookURL, notify.Format(cfg.NotifyFormat), 10*time.Second))
	}
	if cfg.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			zap.L().Warn("amqp notifications disabled", zap.Error(err))
		} else {
			sinks = append(sinks, notify.NewAMQPSink(publisher))
		}
	}
	return sinks
}

func main() {
	logging.Bootstrap(zapcore.Lock(os.Stderr))

	cfg, err := config.Load()
	if err != nil {
		zap.S().Fatalf("config: %v", err)
	}

	flush, err := logging.Setup(cfg.LogMode, cfg.LogFile)
	if err != nil {
		zap.S().Fatalf("logging: %v", err)
	}
	defer flush()

	st, err := openStores(cfg)
	if err != nil {
		zap.L().Fatal("store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	sinks := notificationSinks(cfg)
	// Sinks close after the dispatcher has drained.
	for _, s := range sinks {
		if c, ok := s.(interface{ Close() }); ok {
			defer c.Close()
		}
	}
	dispatcher, err := notify.NewDispatcher(notify.DispatcherOptions{
		Workers:  cfg.NotifyWorkers,
		MaxTries: cfg.NotifyMaxTries,
	}, sinks...)
	if err != nil {
		zap.L().Fatal("notifications", zap.Error(err))
	}
	defer dispatcher.Close()

	catalogProducts := st.products
	orders := services.NewOrderHistory(st.orders)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			PoolSize:     50,
			MinIdleConns: 5,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()

		cached := cache.NewProductRepository(st.products, redisClient)
		catalogProducts = cached
		orders.SetRedisClient(redisClient)

		if len(cfg.CacheWarmupIDs) > 0 {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := cached.Warmup(ctx, cfg.CacheWarmupIDs); err != nil {
					zap.L().Warn("cache warmup failed", zap.Error(err))
				} else {
					zap.L().Info("cache warmed up", zap.Int("products", len(cfg.CacheWarmupIDs)))
				}
			}()
		}
	}

	checkout := services.NewCheckoutService(st.orders, dispatcher)
	checkout.SetOrderHistory(orders)

	handler := httpapi.NewHandler(httpapi.Dependencies{
		Catalog:  services.NewCatalog(catalogProducts),
		Checkout: checkout,
		Orders:   orders,
		Accounts: services.NewAccountService(infra.NewAuthClient(cfg.StoreURL, cfg.StoreKey, cfg.StoreTimeout), st.profiles, dispatcher),
		Carts:    st.carts,
		Products: st.products,
		Emitter:  dispatcher,
	})

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), httpapi.RequestLogger(), httpapi.CORS(cfg.CORSOrigins), httpapi.Session([]byte(cfg.JWTSecret)))
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("starting webshop service", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server run", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("shutdown", zap.Error(err))
	}
	zap.L().Info("server stopped")
}
