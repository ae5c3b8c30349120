package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/RakeshRawat91/StayNest/internal/config"
	"github.com/RakeshRawat91/StayNest/internal/handler"
	"github.com/RakeshRawat91/StayNest/internal/middleware"
	db "github.com/RakeshRawat91/StayNest/internal/mongo"
	"github.com/RakeshRawat91/StayNest/internal/repository"
	"github.com/RakeshRawat91/StayNest/internal/service"
	"github.com/RakeshRawat91/StayNest/internal/session"
)

func main() {
	cfg := config.Load()

	client, err := db.NewClient(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		log.Fatalf("mongo index error: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis connect error: %v", err)
	}

	sessions := session.NewStore(rdb, cfg.SessionTTL)
	userRepo := repository.NewUserRepository(database)
	listingRepo := repository.NewListingRepository(database)

	authSvc := service.NewAuthService(userRepo)
	listingSvc := service.NewListingService(listingRepo)

	authHandler := handler.NewAuthHandler(authSvc, sessions)
	listingHandler := handler.NewListingHandler(listingSvc, sessions)

	r := gin.Default()
	r.LoadHTMLGlob("web/templates/*.html")
	r.Use(middleware.CurrentUser(sessions, userRepo))

	r.GET("/", handler.Home(sessions))
	r.GET("/health", handler.Health())
	authHandler.RegisterRoutes(r)
	listingHandler.RegisterRoutes(r, middleware.RequireLogin(sessions))

	log.Printf("StayNest running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, middleware.MethodOverride(r)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
