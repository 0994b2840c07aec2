package jwtmw

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID is the gin context key holding the authenticated user's identifier.
	ContextUserID = "userID"

	// ContextMobileNumber is the gin context key holding the token's mobile claim,
	// empty when the token carries none.
	ContextMobileNumber = "mobileNumber"
)

// AuthRequired returns a Gin middleware function that validates externally
// issued JWT tokens and restricts access to authenticated users only.
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrTokenMissing.Error()})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Verify signature and resolve identity claims
		id, err := v.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason(err)})
			return
		}

		// 3. Expose identity to handlers
		c.Set(ContextUserID, id.UserID)
		c.Set(ContextMobileNumber, id.MobileNumber)

		// 4. Pass control to the next handler
		c.Next()
	}
}

// reason maps verification errors to the fixed reason strings of the API contract.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrUserIDMissing):
		return err.Error()
	default:
		return ErrInvalidToken.Error()
	}
}
