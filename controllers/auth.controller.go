package controllers

import (
    "context"
    "net/http"
    "regexp"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
    "golang.org/x/crypto/bcrypt"

    "screening-service/config"
    "screening-service/models"
    "screening-service/security"
)

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
    if err := config.DB.Ping(); err != nil {
        c.JSON(http.StatusServiceUnavailable, gin.H{
            "status": "unhealthy",
            "error":  "Database connection failed",
        })
        return
    }

    ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
    defer cancel()
    if err := config.Redis.Ping(ctx).Err(); err != nil {
        c.JSON(http.StatusServiceUnavailable, gin.H{
            "status": "unhealthy",
            "error":  "Redis connection failed",
        })
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "status":    "healthy",
        "service":   "screening-service",
        "timestamp": time.Now().Unix(),
    })
}

type RegisterInput struct {
    FirstName   string `json:"first_name" binding:"required,min=2,max=50"`
    LastName    string `json:"last_name" binding:"required,min=2,max=50"`
    Email       string `json:"email" binding:"omitempty,email"`
    Username    string `json:"username" binding:"required,min=3,max=30"`
    Phone       string `json:"phone" binding:"omitempty"`
    Password    string `json:"password" binding:"required,min=8"`
    DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
    Gender      string `json:"gender" binding:"omitempty,oneof=male female other"`
}

func Register(c *gin.Context) {
    var input RegisterInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    if input.Phone != "" {
        phoneRegex := regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
        if !phoneRegex.MatchString(input.Phone) {
            security.SendValidationError(c, "Invalid phone format", "Please provide a valid phone number")
            return
        }
    }

    var exists bool
    err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE username=$1 OR (email=$2 AND email != ''))`,
        input.Username, input.Email).Scan(&exists)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate user"})
        return
    }
    if exists {
        c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
        return
    }

    passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
        return
    }

    var dob *string
    if input.DateOfBirth != "" {
        dob = &input.DateOfBirth
    }
    var gender *string
    if input.Gender != "" {
        gender = &input.Gender
    }

    var userID string
    err = config.DB.QueryRow(`
        INSERT INTO users (first_name, last_name, email, username, phone, password_hash, date_of_birth, gender)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id
    `, input.FirstName, input.LastName, input.Email, input.Username, input.Phone, string(passHash), dob, gender).Scan(&userID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
        return
    }

    // Every registered user gets a patient profile
    _, err = config.DB.Exec(`INSERT INTO patients (user_id) VALUES ($1)`, userID)
    if err != nil {
        c.Header("X-Warning", "User created but patient profile creation failed")
    }

    accessToken, err := security.SignAccessToken(userID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
        return
    }

    refreshToken, err := security.SignRefreshToken(userID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
        return
    }

    expiresAt := time.Now().Add(7 * 24 * time.Hour)
    _, err = config.DB.Exec(`INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1,$2,$3)`, userID, refreshToken, expiresAt)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refresh token"})
        return
    }

    user := models.User{
        ID:        userID,
        FirstName: input.FirstName,
        LastName:  input.LastName,
        Email:     &input.Email,
        Username:  input.Username,
        Phone:     &input.Phone,
        IsActive:  true,
        CreatedAt: time.Now(),
    }

    c.JSON(http.StatusCreated, gin.H{
        "user":         user,
        "accessToken":  accessToken,
        "refreshToken": refreshToken,
    })
}

type LoginInput struct {
    Login    string `json:"login" binding:"required"` // email or phone
    Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
    var input LoginInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    var user models.User
    err := config.DB.QueryRow(`
        SELECT id, password_hash, first_name, last_name, email, username, phone
        FROM users
        WHERE (email = $1 OR phone = $1 OR username = $1) AND is_active = true
    `, input.Login).Scan(&user.ID, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Email, &user.Username, &user.Phone)
    if err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
        return
    }

    if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
        return
    }

    _, err = config.DB.Exec(`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1`, user.ID)
    if err != nil {
        c.Header("X-Warning", "Failed to update last login timestamp")
    }

    accessToken, err := security.SignAccessToken(user.ID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
        return
    }

    refreshToken, err := security.SignRefreshToken(user.ID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
        return
    }

    expiresAt := time.Now().Add(7 * 24 * time.Hour)
    _, err = config.DB.Exec(`INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1,$2,$3)`, user.ID, refreshToken, expiresAt)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refresh token"})
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "id":           user.ID,
        "firstName":    user.FirstName,
        "lastName":     user.LastName,
        "email":        user.Email,
        "username":     user.Username,
        "phone":        user.Phone,
        "accessToken":  accessToken,
        "refreshToken": refreshToken,
        "tokenType":    "Bearer",
        "expiresIn":    900,
    })
}

type RefreshInput struct {
    RefreshToken string `json:"refresh_token" binding:"required"`
}

func Refresh(c *gin.Context) {
    var input RefreshInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Invalid input data", err.Error())
        return
    }

    token, err := security.VerifyRefreshToken(input.RefreshToken)
    if err != nil || !token.Valid {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
        return
    }

    claims := token.Claims.(jwt.MapClaims)
    userID := claims["sub"].(string)

    var tokenID string
    err = config.DB.QueryRow(`
        SELECT id FROM refresh_tokens
        WHERE user_id = $1 AND token = $2 AND expires_at > CURRENT_TIMESTAMP AND revoked_at IS NULL
    `, userID, input.RefreshToken).Scan(&tokenID)
    if err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
        return
    }

    _, err = config.DB.Exec(`UPDATE refresh_tokens SET revoked_at = CURRENT_TIMESTAMP WHERE id = $1`, tokenID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke old token"})
        return
    }

    newAccessToken, err := security.SignAccessToken(userID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
        return
    }

    newRefreshToken, err := security.SignRefreshToken(userID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
        return
    }

    expiresAt := time.Now().Add(7 * 24 * time.Hour)
    _, err = config.DB.Exec(`INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1,$2,$3)`, userID, newRefreshToken, expiresAt)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refresh token"})
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "accessToken":  newAccessToken,
        "refreshToken": newRefreshToken,
        "tokenType":    "Bearer",
        "expiresIn":    900,
    })
}

type LogoutInput struct {
    RefreshToken string `json:"refresh_token" binding:"required"`
}

func Logout(c *gin.Context) {
    var input LogoutInput
    if err := c.ShouldBindJSON(&input); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
        return
    }

    result, err := config.DB.Exec(`UPDATE refresh_tokens SET revoked_at = CURRENT_TIMESTAMP WHERE token = $1`, input.RefreshToken)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
        return
    }

    rowsAffected, err := result.RowsAffected()
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check logout status"})
        return
    }

    if rowsAffected == 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refresh token"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GuestSession mints an anonymous identity. Guests may run screenings
// and keep a draft, but consultations are never persisted for them.
func GuestSession(c *gin.Context) {
    c.JSON(http.StatusCreated, gin.H{
        "guest_id": uuid.NewString(),
        "role":     "guest",
        "message":  "Guest sessions are temporary. Register to save your screening history.",
    })
}

func GetProfile(c *gin.Context) {
    userID := c.GetString("user_id")

    var user models.User
    err := config.DB.QueryRow(`
        SELECT id, email, username, first_name, last_name, phone, date_of_birth, gender, is_active, last_login, created_at
        FROM users WHERE id = $1
    `, userID).Scan(&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName, &user.Phone,
        &user.DateOfBirth, &user.Gender, &user.IsActive, &user.LastLogin, &user.CreatedAt)

    if err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
        return
    }

    c.JSON(http.StatusOK, user)
}
