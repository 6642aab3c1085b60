package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "studydesk/backend/internal/errors"
)

const ClientIDContextKey = "clientID"

// TokenParser resolves a session token to its client id.
type TokenParser interface {
	ParseToken(token string) (string, *apperrors.APIError)
}

// ClientSession requires a session token on every request. Browsers using
// EventSource cannot set headers, so the access_token query parameter is
// accepted when no Authorization header is sent.
func ClientSession(sessions TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, apiErr := sessionToken(c)
		if apiErr != nil {
			writeError(c, apiErr)
			return
		}

		clientID, apiErr := sessions.ParseToken(token)
		if apiErr != nil {
			writeError(c, apiErr)
			return
		}

		c.Set(ClientIDContextKey, clientID)
		c.Next()
	}
}

func sessionToken(c *gin.Context) (string, *apperrors.APIError) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := strings.TrimSpace(c.Query("access_token")); token != "" {
			return token, nil
		}
		return "", apperrors.Unauthorized("missing authorization header")
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperrors.Unauthorized("invalid authorization format")
	}
	return strings.TrimSpace(token), nil
}

func ClientID(c *gin.Context) string {
	value, ok := c.Get(ClientIDContextKey)
	if !ok {
		return ""
	}
	clientID, ok := value.(string)
	if !ok {
		return ""
	}
	return clientID
}

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	_ = c.Error(apiErr).SetType(gin.ErrorTypePublic)
	body := gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}
	if apiErr.Details != nil {
		body["details"] = apiErr.Details
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": body})
}
