package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/session"
)

// SessionCookieName is the browser cookie carrying the signed session ID.
const SessionCookieName = "studylite_session"

// ContextKeySession is the Gin context key for the loaded *session.State.
const ContextKeySession = "session_state"

// SessionConfig configures the browser session middleware.
type SessionConfig struct {
	Store  session.Store
	Signer *session.Signer
	Secure bool
	Log    zerolog.Logger
}

// Session loads the browser session state before the handler runs and saves
// it afterwards. A missing, tampered or expired cookie starts a new session.
// The cookie has no Max-Age, so it ends with the browser session.
func Session(cfg SessionConfig) gin.HandlerFunc {
	log := cfg.Log.With().Str("component", "session").Logger()

	return func(c *gin.Context) {
		sid := ""
		if raw, err := c.Cookie(SessionCookieName); err == nil && raw != "" {
			if parsed, err := cfg.Signer.Parse(raw); err == nil {
				sid = parsed
			} else {
				log.Debug().Err(err).Msg("Discarding invalid session cookie")
			}
		}

		var st *session.State
		if sid != "" {
			loaded, err := cfg.Store.Load(c.Request.Context(), sid)
			switch {
			case err == nil:
				st = loaded
			case errors.Is(err, session.ErrNoSession):
			default:
				log.Warn().Err(err).Str("sid", sid).Msg("Session load failed")
			}
		}

		if st == nil {
			if sid == "" {
				sid = session.NewID()
				token, err := cfg.Signer.Issue(sid)
				if err != nil {
					log.Error().Err(err).Msg("Session token signing failed")
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(SessionCookieName, token, 0, "/", "", cfg.Secure, true)
			}
			st = session.New(sid)
		}

		c.Set(ContextKeySession, st)
		c.Next()

		// Last write wins between concurrent requests of the same session.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 3*time.Second)
		defer cancel()
		if err := cfg.Store.Save(ctx, st); err != nil {
			log.Error().Err(err).Str("sid", sid).Msg("Session save failed")
		}
	}
}

// GetState extracts the session state set by Session. It returns a throwaway
// state if the middleware was not applied.
func GetState(c *gin.Context) *session.State {
	if v, ok := c.Get(ContextKeySession); ok {
		if st, ok := v.(*session.State); ok {
			return st
		}
	}
	return session.New("")
}
