package api

import (
	"net/http"
	"strings"
	"time"

	"doctor-reviews/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const identityKey = "identity"

// Authenticate resolves the bearer token of the request into the caller's identity.
func Authenticate(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header || token == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "bearer token required")
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			log.Debug().Err(err).Msg("api: token rejected")
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func identityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		if status >= http.StatusInternalServerError {
			evt = log.Error()
		}

		evt.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
