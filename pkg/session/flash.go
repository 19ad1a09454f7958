package session

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashWarning FlashKind = "warning"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    FlashKind
	Message string
}

func AddFlash(c *gin.Context, kind FlashKind, message string) {
	store := sessions.Default(c)
	store.AddFlash(string(kind) + "|" + message)
	_ = store.Save()
}

// Flashes drains the pending notifications.
func Flashes(c *gin.Context) []Flash {
	store := sessions.Default(c)
	raw := store.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = store.Save()

	out := make([]Flash, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			continue
		}
		kind, msg, found := strings.Cut(s, "|")
		if !found {
			kind, msg = string(FlashSuccess), s
		}
		out = append(out, Flash{Kind: FlashKind(kind), Message: msg})
	}
	return out
}
