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

    "screening-service/ai"
    "screening-service/config"
    "screening-service/controllers"
    "screening-service/routes"
    "screening-service/security"
    "screening-service/store"
)

func main() {
    config.InitLogger()
    config.ConnectDB()
    config.ConnectRedis()

    aiURL := os.Getenv("AI_SERVICE_URL")
    if aiURL == "" {
        aiURL = "http://localhost:8090"
    }
    controllers.AI = ai.NewClient(aiURL, os.Getenv("AI_SERVICE_KEY"), config.Logger)
    controllers.Drafts = store.NewDraftStore(store.NewRedisKV(config.Redis), config.Logger)

    r := gin.Default()

    r.Use(security.CORSMiddleware())

    api := r.Group("/api/screening")
    routes.ScreeningRoutes(api)

    port := os.Getenv("PORT")
    if port == "" {
        port = "8084"
    }

    srv := &http.Server{
        Addr:    ":" + port,
        Handler: r,
    }

    // Start server in a goroutine
    go func() {
        log.Printf("Screening service starting on port %s", port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("Failed to start server: %v", err)
        }
    }()

    // Wait for interrupt signal to gracefully shutdown the server
    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit
    log.Println("Shutting down screening service...")

    // Give outstanding requests 30 seconds to complete
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    if err := srv.Shutdown(ctx); err != nil {
        log.Fatal("Screening service forced to shutdown:", err)
    }

    log.Println("Screening service exited")
}
