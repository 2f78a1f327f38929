package service

import (
	"textbook_backend/internal/config"
	"textbook_backend/internal/repository"
	"textbook_backend/internal/util"
	"textbook_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is the subject an event gets attributed to: the account's
// username when authenticated, otherwise an anonymous token bound to the
// browser session.
type Identity struct {
	Sid           string
	Authenticated bool
}

type IdentityService struct {
	Sessions SessionStore
	Useinfo  *repository.UseinfoRepository
	Cookie   config.SessionConfig
}

func NewIdentityService(sessions SessionStore, useinfo *repository.UseinfoRepository, cookie config.SessionConfig) *IdentityService {
	return &IdentityService{Sessions: sessions, Useinfo: useinfo, Cookie: cookie}
}

// Resolve picks exactly one subject for this request and, when a previously
// anonymous session turns out to be a logged-in user, rewrites the anonymous
// event history onto the account before anything new is recorded. Resolution
// never fails: every error degrades to logging plus a usable sid, at worst a
// fresh anonymous one.
func (s *IdentityService) Resolve(c *gin.Context) Identity {
	ctx := c.Request.Context()

	token, _ := c.Cookie(s.Cookie.CookieName)
	var prior string
	if token != "" {
		var err error
		prior, err = s.Sessions.Sid(ctx, token)
		if err != nil {
			logger.Log.Error("session lookup failed", zap.Error(err))
			prior = ""
		}
	}

	if claims := util.GetUserFromContext(c); claims != nil {
		sid := claims.Username
		if prior != "" && prior != sid {
			// The reassignment must land before this request writes any new
			// rows, so the whole history ends up under one subject.
			if err := s.Useinfo.ReassignSid(prior, sid); err != nil {
				logger.Log.Error("failed to reassign anonymous history",
					zap.String("from", prior), zap.String("to", sid), zap.Error(err))
			}
		}
		s.bind(c, token, sid)
		return Identity{Sid: sid, Authenticated: true}
	}

	if prior != "" {
		s.bind(c, token, prior)
		return Identity{Sid: prior}
	}

	// A brand-new anonymous visitor: mint a token that stays unique across
	// servers by combining a uuid with the caller's network origin.
	sid := uuid.NewString() + "@" + c.ClientIP()
	s.bind(c, token, sid)
	return Identity{Sid: sid}
}

// bind refreshes the session so auth timeouts don't shower the log with
// throwaway anonymous sids while the page stays open.
func (s *IdentityService) bind(c *gin.Context, token, sid string) {
	if token == "" {
		token = uuid.NewString()
		maxAge := int(s.Cookie.TTL.Seconds())
		if maxAge <= 0 {
			maxAge = 30 * 24 * 60 * 60
		}
		c.SetCookie(s.Cookie.CookieName, token, maxAge, "/", "", s.Cookie.Secure, true)
	}

	if err := s.Sessions.Bind(c.Request.Context(), token, sid); err != nil {
		logger.Log.Error("session bind failed", zap.Error(err))
	}
}
