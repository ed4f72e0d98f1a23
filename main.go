package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront-service/cache"
	cartpkg "storefront-service/cart"
	"storefront-service/clients"
	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/kafka"
	"storefront-service/logger"
	"storefront-service/notifications"
	"storefront-service/routes"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	redisClient := newRedisClient(cfg.RedisURL)

	cartClient := clients.NewCartClient(cfg.CartAPIURL, cfg.RequestTimeout)
	catalogClient := clients.NewCatalogClient(cfg.CatalogAPIURL, cfg.RequestTimeout)
	wishlistClient := clients.NewWishlistClient(cfg.WishlistAPIURL, cfg.RequestTimeout)

	feed := notifications.NewFeed(redisClient, cfg.NotificationTTL)
	catalogCache := cache.NewCatalogCache(redisClient, cfg.CatalogCacheTTL)

	producer := kafka.NewProducer(cfg.Brokers(), cfg.KafkaTopic)
	defer producer.Close()
	var events cartpkg.Events
	if producer != nil {
		events = producer
	}

	store := cartpkg.NewStore(cartClient, feed, events, cfg.ConflictGraceDelay)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())

	routes.Register(
		router,
		controllers.NewStorefrontController(catalogClient, wishlistClient, catalogCache),
		controllers.NewCartController(store, feed),
		controllers.NewProxyController(cfg.AccountAPIURL, cfg.RequestTimeout),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Storefront Service is running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}
	log.Println("Server shutdown complete.")
}

// newRedisClient initializes and returns a Redis client
func newRedisClient(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Invalid Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Connected to Redis")
	return client
}
