package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"restaurant_api/internal/api"
	"restaurant_api/internal/app/service"
	"restaurant_api/internal/common/security"
	"restaurant_api/internal/domain/repository"
	"restaurant_api/internal/platform/cache"
	"restaurant_api/internal/platform/config"
	"restaurant_api/internal/platform/database"
	"restaurant_api/internal/platform/media"
	"syscall"
	"time"
)

func main() {
	// 1. Load Configuration (fatal if the signing secret is missing)
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate(context.Background())
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories & Stores
	userRepo := repository.NewPgUserRepository(database.DB)
	menuItemRepo := repository.NewPgMenuItemRepository(database.DB)
	imageStore := media.NewLocalStore(config.AppConfig.ImageDir)
	menuCache := cache.NewRedisCache(cache.RDB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo)
	menuItemService := service.NewMenuItemService(
		menuItemRepo,
		imageStore,
		menuCache,
		config.AppConfig.MenuCacheTTL,
		config.AppConfig.DeleteDelay,
	)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, menuItemService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
