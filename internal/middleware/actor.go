package middleware

import (
	"net/http"

	"essence/backend/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActorIDKey is the gin context key holding the authenticated caller's id.
// The engine trusts the gateway in front of it to have authenticated the
// request; it only needs to know WHO is acting.
const ActorIDKey = "actor_id"

// Actor requires a valid X-Actor-ID header and stores it in the context.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Actor-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("cabecera X-Actor-ID requerida"))
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("X-Actor-ID invalido"))
			return
		}
		c.Set(ActorIDKey, id)
		c.Next()
	}
}

// ActorID reads the caller id stored by Actor. The zero UUID means the
// middleware did not run on this route.
func ActorID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ActorIDKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
