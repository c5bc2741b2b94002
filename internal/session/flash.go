package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	FlashCookieName = "rakitin_flash"

	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"

	pendingFlashKey = "session_flashes"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AddFlash queues a message for the next rendered page, whether that is the
// current response or the one after a redirect.
func AddFlash(c *gin.Context, category, message string) {
	pending := pendingFlashes(c)
	pending = append(pending, Flash{Category: category, Message: message})
	c.Set(pendingFlashKey, pending)

	encoded, err := json.Marshal(pending)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookieName, base64.RawURLEncoding.EncodeToString(encoded), 60, "/", "", cookieSecure(c), true)
}

// Flashes drains the messages carried over from the previous response and
// those queued during this request.
func Flashes(c *gin.Context) []Flash {
	var out []Flash
	raw, err := c.Cookie(FlashCookieName)
	carried := err == nil && raw != ""
	if carried {
		if decoded, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
			var prev []Flash
			if json.Unmarshal(decoded, &prev) == nil {
				out = append(out, prev...)
			}
		}
	}
	pending := pendingFlashes(c)
	out = append(out, pending...)

	if carried || len(pending) > 0 {
		c.Set(pendingFlashKey, []Flash(nil))
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(FlashCookieName, "", -1, "/", "", cookieSecure(c), true)
	}
	return out
}

func pendingFlashes(c *gin.Context) []Flash {
	v, ok := c.Get(pendingFlashKey)
	if !ok {
		return nil
	}
	pending, _ := v.([]Flash)
	return pending
}

// cookieSecure follows the Manager's setting for requests that went through
// its middleware.
func cookieSecure(c *gin.Context) bool {
	return c.GetBool(secureKey)
}
