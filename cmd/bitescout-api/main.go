package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Tyno1/bitescout-api/docs"
	"github.com/Tyno1/bitescout-api/internal/cache"
	"github.com/Tyno1/bitescout-api/internal/config"
	"github.com/Tyno1/bitescout-api/internal/events"
	"github.com/Tyno1/bitescout-api/internal/hooks"
	"github.com/Tyno1/bitescout-api/internal/http/handlers/catalogue"
	"github.com/Tyno1/bitescout-api/internal/http/handlers/media"
	"github.com/Tyno1/bitescout-api/internal/http/handlers/posts"
	"github.com/Tyno1/bitescout-api/internal/http/handlers/restaurants"
	"github.com/Tyno1/bitescout-api/internal/http/handlers/users"
	wshandler "github.com/Tyno1/bitescout-api/internal/http/handlers/websocket"
	"github.com/Tyno1/bitescout-api/internal/http/middleware"
	"github.com/Tyno1/bitescout-api/internal/services/analytics"
	"github.com/Tyno1/bitescout-api/internal/services/linker"
	"github.com/Tyno1/bitescout-api/internal/services/objectstore"
	"github.com/Tyno1/bitescout-api/internal/services/upload"
	"github.com/Tyno1/bitescout-api/internal/storage/postgres"
	ws "github.com/Tyno1/bitescout-api/internal/websocket"
)

// @title BiteScout Media API
// @version 1.0
// @description Media association, upload and food-tag analytics service
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config
	cfg := config.MustLoad()

	// database setup
	db, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	slog.Info("Connected to Postgres database")

	// redis setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	slog.Info("Connected to Redis")

	// object storage setup
	store, err := objectstore.NewService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}
	slog.Info("Connected to object storage")

	// read-through cache in front of Postgres
	storage := cache.NewCacheService(db, redisClient)

	// websocket hub for notification events
	hub := ws.NewHub()
	go hub.Run()
	publisher := events.NewEventPublisher(hub)

	// secondary-effect plumbing
	runner := hooks.NewRunner(slog.Default())
	lk := linker.New(storage)
	uploader := upload.NewOrchestrator(store, storage, lk, runner)
	recomputer := analytics.New(storage)

	mediaHandlers := media.NewMediaHandlers(storage, uploader, lk, runner, publisher)
	postHandlers := posts.NewPostHandlers(storage, recomputer, runner, publisher)

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	rateLimits := middleware.NewRateLimitConfig(redisClient)
	uploadLimit := rateLimits.RateLimitMiddleware("uploads")
	tagLimit := rateLimits.RateLimitMiddleware("tags")

	// setup server
	router := http.NewServeMux()

	router.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("BiteScout API"))
	})

	// users
	router.HandleFunc("POST /signup", users.SignUp(storage))
	router.HandleFunc("POST /login", users.Login(storage, cfg.JWTSecret))
	router.Handle("GET /me", auth(users.Me(storage)))

	// media
	router.Handle("POST /media", auth(mediaHandlers.Create()))
	router.Handle("POST /media/upload", auth(uploadLimit(mediaHandlers.Upload())))
	router.Handle("POST /media/upload/batch", auth(uploadLimit(mediaHandlers.UploadBatch())))
	router.HandleFunc("GET /media/verified", mediaHandlers.ListVerified())
	router.HandleFunc("GET /media/associated/{type}/{id}", mediaHandlers.ListByAssociation())
	router.HandleFunc("GET /media/user/{user_id}", mediaHandlers.ListByUploader())
	router.HandleFunc("GET /media/{id}", mediaHandlers.Get())
	router.Handle("PATCH /media/{id}", auth(mediaHandlers.Update()))
	router.Handle("DELETE /media/{id}", auth(mediaHandlers.Delete()))
	router.Handle("POST /media/{id}/verify", auth(mediaHandlers.ToggleVerified()))

	// posts and food tags
	router.Handle("POST /posts", auth(postHandlers.Create()))
	router.HandleFunc("GET /posts/{id}", postHandlers.Get())
	router.Handle("POST /posts/{id}/like", auth(postHandlers.ToggleLike()))
	router.Handle("POST /posts/{id}/tag", auth(tagLimit(postHandlers.TagFood())))
	router.Handle("PUT /posts/{id}/tag", auth(tagLimit(postHandlers.TagFood())))
	router.Handle("DELETE /posts/{id}/tag/{food_id}", auth(tagLimit(postHandlers.UntagFood())))

	// restaurants and food catalogue
	router.Handle("POST /restaurants", auth(restaurants.Create(storage)))
	router.HandleFunc("GET /restaurants/{id}", restaurants.Get(storage))
	router.Handle("POST /foods", auth(catalogue.Create(storage)))
	router.HandleFunc("GET /foods/{id}", catalogue.Get(storage))

	// websocket notifications
	router.HandleFunc("GET /ws", wshandler.WebSocketHandler(hub, cfg.JWTSecret))

	// cache admin
	router.Handle("GET /admin/cache/stats", auth(cache.GetCacheStats(redisClient)))
	router.Handle("POST /admin/cache/clear", auth(cache.ClearCache(redisClient)))

	// swagger docs
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	server := http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: router,
	}

	log.Println("server started on", cfg.HTTPServer.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
