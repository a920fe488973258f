package security

import (
    "database/sql"
    "errors"
    "net/http"
    "os"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
)

// GuestHeader carries a previously issued guest session id so that a
// guest keeps the same draft key across requests.
const GuestHeader = "X-Guest-ID"

// Database interface for dependency injection
type Database interface {
    QueryRow(query string, args ...interface{}) *sql.Row
    Query(query string, args ...interface{}) (*sql.Rows, error)
}

// JWT utilities
func SignAccessToken(userID string) (string, error) {
    secret := os.Getenv("JWT_ACCESS_SECRET")
    if secret == "" {
        return "", errors.New("JWT_ACCESS_SECRET not set")
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub":  userID,
        "exp":  time.Now().Add(15 * time.Minute).Unix(),
        "iat":  time.Now().Unix(),
        "type": "access",
    })
    return token.SignedString([]byte(secret))
}

func SignRefreshToken(userID string) (string, error) {
    secret := os.Getenv("JWT_REFRESH_SECRET")
    if secret == "" {
        return "", errors.New("JWT_REFRESH_SECRET not set")
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub":  userID,
        "exp":  time.Now().Add(7 * 24 * time.Hour).Unix(),
        "iat":  time.Now().Unix(),
        "type": "refresh",
    })
    return token.SignedString([]byte(secret))
}

func VerifyRefreshToken(tokenStr string) (*jwt.Token, error) {
    secret := os.Getenv("JWT_REFRESH_SECRET")
    if secret == "" {
        return nil, errors.New("JWT_REFRESH_SECRET not set")
    }

    token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })

    if err != nil {
        return nil, err
    }

    if !token.Valid {
        return nil, errors.New("invalid token")
    }

    claims, ok := token.Claims.(jwt.MapClaims)
    if !ok {
        return nil, errors.New("invalid token claims")
    }

    tokenType, ok := claims["type"].(string)
    if !ok || tokenType != "refresh" {
        return nil, errors.New("invalid token type")
    }

    return token, nil
}

func parseAccessToken(tokenStr string) (string, error) {
    secret := os.Getenv("JWT_ACCESS_SECRET")
    if secret == "" {
        return "", errors.New("JWT_ACCESS_SECRET not set")
    }

    token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })
    if err != nil || !token.Valid {
        return "", errors.New("invalid or expired token")
    }

    claims, ok := token.Claims.(jwt.MapClaims)
    if !ok {
        return "", errors.New("invalid token claims")
    }

    userID, ok := claims["sub"].(string)
    if !ok {
        return "", errors.New("invalid user information")
    }

    return userID, nil
}

// AuthMiddleware creates a Gin middleware for JWT authentication
func AuthMiddleware(db Database) gin.HandlerFunc {
    return func(c *gin.Context) {
        tokenStr := c.GetHeader("Authorization")
        if tokenStr == "" {
            SendError(c, http.StatusUnauthorized, CodeMissingToken, "Authentication required",
                "Please provide a valid authorization token in the request header", nil)
            c.Abort()
            return
        }

        if strings.HasPrefix(tokenStr, "Bearer ") {
            tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
        }

        userID, err := parseAccessToken(tokenStr)
        if err != nil {
            SendError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token",
                "The provided token is invalid, expired, or malformed. Please login again to get a new token", nil)
            c.Abort()
            return
        }

        var exists bool
        err = db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id=$1 AND is_active=true)`, userID).Scan(&exists)
        if err != nil {
            SendError(c, http.StatusInternalServerError, CodeAuthVerificationError, "Authentication verification failed",
                "Unable to verify user status. Please try again later", nil)
            c.Abort()
            return
        }
        if !exists {
            SendError(c, http.StatusUnauthorized, CodeUserNotFoundOrInactive, "User account not found or inactive",
                "Your account is not found or has been deactivated. Please contact support", nil)
            c.Abort()
            return
        }

        c.Set("user_id", userID)
        c.Set("is_guest", false)
        c.Next()
    }
}

// OptionalAuth resolves an identity without requiring one. A valid
// bearer token yields an authenticated user; anything else falls back
// to a guest identity taken from the X-Guest-ID header, or freshly
// minted. Guests may run screenings but nothing is persisted for them
// beyond their draft.
func OptionalAuth(db Database) gin.HandlerFunc {
    return func(c *gin.Context) {
        tokenStr := c.GetHeader("Authorization")
        if strings.HasPrefix(tokenStr, "Bearer ") {
            tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
        }

        if tokenStr != "" {
            userID, err := parseAccessToken(tokenStr)
            if err == nil {
                var exists bool
                dbErr := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id=$1 AND is_active=true)`, userID).Scan(&exists)
                if dbErr == nil && exists {
                    c.Set("user_id", userID)
                    c.Set("is_guest", false)
                    c.Next()
                    return
                }
            }
        }

        guestID := c.GetHeader(GuestHeader)
        if guestID == "" {
            guestID = uuid.NewString()
        }

        c.Set("user_id", guestID)
        c.Set("is_guest", true)
        c.Next()
    }
}

func CORSMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        origin := c.Request.Header.Get("Origin")

        allowOrigin := "*"
        if origin != "" {
            allowOrigin = origin
        }

        c.Header("Access-Control-Allow-Origin", allowOrigin)
        c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
        c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin, Cache-Control, "+GuestHeader)
        c.Header("Access-Control-Allow-Credentials", "true")
        c.Header("Access-Control-Max-Age", "86400")

        if c.Request.Method == http.MethodOptions {
            c.AbortWithStatus(204)
            return
        }

        c.Next()
    }
}
