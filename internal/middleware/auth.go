package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware requires a valid bearer access token. The token subject
// becomes the acting user for every mutation in the request.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Warn("Missing or malformed Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be Bearer {token}"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			logger.Warn("Rejected access token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tokenErrorMessage(err)})
			return
		}

		actorID := claims.Subject
		ctx := context.WithValue(c.Request.Context(), userIDKey, actorID)
		ctx = context.WithValue(ctx, loggerCtxKey, logger.With(slog.String("user_id", actorID)))
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(userIDKey), actorID)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Token not valid yet"
	case errors.Is(err, utils.ErrMissingSubject):
		return "Invalid token claims"
	default:
		return "Invalid token"
	}
}
