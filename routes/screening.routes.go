package routes

import (
    "github.com/gin-gonic/gin"

    "screening-service/config"
    "screening-service/controllers"
    "screening-service/security"
)

func ScreeningRoutes(rg *gin.RouterGroup) {
    // Health check endpoint (no auth required)
    rg.GET("/health", controllers.HealthCheck)

    // Auth & identity
    auth := rg.Group("/auth")
    {
        auth.POST("/register", controllers.Register)
        auth.POST("/login", controllers.Login)
        auth.POST("/refresh", controllers.Refresh)
        auth.POST("/logout", controllers.Logout)
        auth.POST("/guest", controllers.GuestSession)
        auth.GET("/profile", security.AuthMiddleware(config.DB), controllers.GetProfile)
    }

    // Public directory
    rg.GET("/doctors", controllers.GetDoctors)
    rg.GET("/doctors/:id", controllers.GetDoctor)

    // Intake form vocabulary
    rg.GET("/form", controllers.GetScreeningForm)

    // Screening flow: open to guests, identity resolved per request
    screening := rg.Group("")
    screening.Use(security.OptionalAuth(config.DB))
    {
        screening.POST("/analyze", controllers.RunAnalysis)
        screening.GET("/drafts", controllers.GetDraft)
        screening.PUT("/drafts", controllers.SaveDraft)
        screening.DELETE("/drafts", controllers.ClearDraft)
    }

    // Saved screening history (registered patients only)
    rg.GET("/consultations", security.AuthMiddleware(config.DB), controllers.GetConsultations)
}
