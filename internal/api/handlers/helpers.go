package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/lpr/internal/auth"
	"github.com/your-org/lpr/internal/verify"
)

// actorFrom builds the verification actor from the authenticated caller.
func actorFrom(c *gin.Context) (verify.Actor, bool) {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		return verify.Actor{}, false
	}
	return verify.Actor{
		ID:        ident.UserID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}, true
}
