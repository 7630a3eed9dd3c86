package middlewares

import (
	"net/http"
	"strings"

	"github.com/Luismorlan/newsdesk/accounts"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserKey = "user"
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "token"
)

// UserLoader resolves the user id carried by a session token.
type UserLoader func(id string) (*model.User, error)

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// JWT authenticates the request from the Authorization bearer token or the
// session cookie and stores the user in the context. Requests without a valid
// token are rejected with 401.
func JWT(tokens *accounts.TokenIssuer, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}

		userID, err := tokens.VerifyJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		user, err := users(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser is the user set by JWT, nil on unauthenticated routes.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// RequireRole lets through only users acting under role. It must run after
// JWT.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		if !user.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}
