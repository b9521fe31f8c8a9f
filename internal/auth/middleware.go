package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"

// RequireSessionToken verifies a session token and injects the subject into
// the request context. Verification tokens are rejected with claim_missing.
func RequireSessionToken(s *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := StripBearerPrefix(c.GetHeader(authorizationHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": Code(err)})
			return
		}

		userID, err := s.ExtractSubject(tok)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": Code(err)})
			return
		}

		ctx := WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		// Also store on gin context for handler convenience.
		c.Set("user_id", userID)

		c.Next()
	}
}
