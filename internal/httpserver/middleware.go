package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"buildkit-store/internal/domain"
	sessionrepo "buildkit-store/internal/repository/session"
	"buildkit-store/internal/service/account"
	"buildkit-store/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "sessionid"
	sessionMaxAge = 30 * 24 * time.Hour
	ctxSessionKey = "session"
)

// sessionMiddleware resolves the visitor's session from the session
// cookie, creating a new session ID on first contact, and writes the
// session back to the store after the handler when it was mutated.
func sessionMiddleware(store sessionrepo.Repository, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		fresh := err != nil || sid == ""
		if fresh {
			sid = uuid.NewString()
		}

		var data session.Data
		if !fresh {
			data, err = store.Load(c.Request.Context(), sid)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				logger.Printf("session load %s: %v", sid, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
		}
		sess := session.New(sid, data)
		c.Set(ctxSessionKey, sess)
		if fresh {
			c.SetCookie(sessionCookie, sid, int(sessionMaxAge.Seconds()), "/", "", false, true)
		}

		c.Next()

		if sess.Modified() {
			if err := store.Save(c.Request.Context(), sid, sess.Data()); err != nil {
				logger.Printf("session save %s: %v", sid, err)
			}
		}
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, _ := c.Get(ctxSessionKey)
	sess, _ := v.(*session.Session)
	return sess
}

// currentCustomer resolves the authenticated customer from a bearer
// token, or nil for guests.
func currentCustomer(c *gin.Context, svc *account.Service) *domain.Customer {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" || token == header {
		return nil
	}
	customer, err := svc.LookupByToken(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	return customer
}
