package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// JobTokenSubject is the only subject accepted on the job trigger routes.
const JobTokenSubject = "scheduler"

// jobClaims is the payload of a job trigger token.
type jobClaims struct {
	jwt.RegisteredClaims
}

// SignJobToken issues an HS256 token for the external scheduler, valid for ttl.
func SignJobToken(secret string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("job token secret is empty")
	}
	claims := jobClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   JobTokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// JobTokenMiddleware guards the job trigger routes with a bearer token signed
// by SignJobToken.
func JobTokenMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jobClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.Subject != JobTokenSubject || claims.ExpiresAt == nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondWithError maps service errors to status codes. Unexpected errors are
// logged and reported with the generic message.
func respondWithError(c *gin.Context, err error, message string) {
	switch {
	case service.IsNotFound(err):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: %s: %v", message, err)
		abortWithError(c, http.StatusInternalServerError, message)
	}
}
