// Package jwtmw provides optional bearer-token protection for the API.
package jwtmw

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// EnvKeyJWTSecret names the environment variable holding the HMAC
// secret. When it is unset the router leaves the API open.
const EnvKeyJWTSecret = "DASHBOARD_JWT_SECRET"

// ContextClientID is the gin context key carrying the token subject.
const ContextClientID = "clientID"

// AuthRequired returns a middleware that admits only requests carrying
// a valid HMAC-signed bearer token. Tokens are minted outside this
// service; there is no user account system here.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		secret := os.Getenv(EnvKeyJWTSecret)
		if secret == "" {
			// Middleware applied without a configured secret
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				c.Set(ContextClientID, sub)
			}
		}
		c.Next()
	}
}
