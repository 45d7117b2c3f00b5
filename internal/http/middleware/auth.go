package middleware

import (
	"github.com/gin-gonic/gin"
)

// Anonymous is the operator recorded when admin auth is disabled.
const Anonymous = "anonymous"

// retrieves the token subject from Gin context (after JWTMiddleware has run).
// Without auth the operator is Anonymous.
func GetCurrentSubject(c *gin.Context) string {
	v, exists := c.Get(currentSubjectKey)
	if !exists {
		return Anonymous
	}
	subject, ok := v.(string)
	if !ok || subject == "" {
		return Anonymous
	}
	return subject
}
