// Package session keeps the signed-in user's token and role in one signed
// cookie and exposes them to handlers as an explicit Session value.
package session

import (
	"net/http"
	"strings"
	"time"

	"newsdesk/pkg/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LoginPath = "/auth/login"

	ctxKey      = "newsdesk.session"
	keyID       = "sid"
	keyToken    = "token"
	keyRole     = "role"
	keyUsername = "username"
)

type Session struct {
	ID       string
	Token    string
	Role     models.Role
	Username string
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Expired reports whether the token is a JWT whose exp claim has passed.
// Opaque tokens never expire from our side.
func (s Session) Expired(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}

type Options struct {
	Name   string
	Secret []byte
	MaxAge int
	Secure bool
}

// Middleware installs the cookie store and loads the Session into the
// request context.
func Middleware(opts Options) []gin.HandlerFunc {
	store := cookie.NewStore(opts.Secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return []gin.HandlerFunc{
		sessions.Sessions(opts.Name, store),
		func(c *gin.Context) {
			c.Set(ctxKey, load(sessions.Default(c)))
			c.Next()
		},
	}
}

func load(store sessions.Session) Session {
	get := func(key string) string {
		v, _ := store.Get(key).(string)
		return v
	}
	return Session{
		ID:       get(keyID),
		Token:    get(keyToken),
		Role:     models.Role(get(keyRole)),
		Username: get(keyUsername),
	}
}

// Current returns the Session of the request; the zero value when signed out.
func Current(c *gin.Context) Session {
	if v, ok := c.Get(ctxKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{}
}

// Save persists s, assigning a session id on first use.
func Save(c *gin.Context, s Session) (Session, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	store := sessions.Default(c)
	store.Set(keyID, s.ID)
	store.Set(keyToken, s.Token)
	store.Set(keyRole, string(s.Role))
	store.Set(keyUsername, s.Username)
	if err := store.Save(); err != nil {
		return s, err
	}
	c.Set(ctxKey, s)
	return s, nil
}

// Clear drops the token and role; pending flashes survive so the login
// screen can still show why the user landed there.
func Clear(c *gin.Context) error {
	store := sessions.Default(c)
	for _, k := range []string{keyID, keyToken, keyRole, keyUsername} {
		store.Delete(k)
	}
	c.Set(ctxKey, Session{})
	return store.Save()
}

// Require lets the request through only for a signed-in user of role.
// Everything else is sent to the login screen before any handler runs.
func Require(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := Current(c)
		if s.Authenticated() && s.Role == role && !s.Expired(time.Now()) {
			c.Next()
			return
		}
		if s.Authenticated() {
			_ = Clear(c)
		}
		Deny(c)
	}
}

// Deny aborts with 401 for JSON callers and a redirect to login otherwise.
func Deny(c *gin.Context) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		c.GetHeader("X-Requested-With") == "fetch"
}
