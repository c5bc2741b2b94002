// Package session keeps the signed-in user in an HS256-signed cookie and
// exposes it to handlers as a request-scoped Identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"rakitin/internal/logging"
	"rakitin/internal/roles"
)

const (
	CookieName = "rakitin_session"

	identityKey = "session_identity"
	secureKey   = "session_cookie_secure"
)

var ErrInvalidSession = errors.New("invalid session")

// Identity is the authenticated user for one request.
type Identity struct {
	UID       string
	Email     string
	Name      string
	Role      roles.Role
	TokenID   string
	ExpiresAt time.Time
}

type claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Revocations remembers token ids invalidated by logout.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

type Manager struct {
	secret  []byte
	ttl     time.Duration
	secure  bool
	revoked Revocations
	log     *zap.Logger
}

// NewManager returns a cookie session manager. revoked may be nil.
func NewManager(secret string, ttl time.Duration, secure bool, revoked Revocations, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		secure:  secure,
		revoked: revoked,
		log:     log,
	}
}

// Encode signs ident into a token string. TokenID and ExpiresAt are filled in.
func (m *Manager) Encode(ident *Identity) (string, error) {
	now := time.Now()
	ident.TokenID = uuid.NewString()
	ident.ExpiresAt = now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: ident.Email,
		Name:  ident.Name,
		Role:  string(ident.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.UID,
			ID:        ident.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(ident.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies a token string. Expired, tampered and revoked tokens all
// return ErrInvalidSession.
func (m *Manager) Decode(ctx context.Context, tokenString string) (*Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if c.Subject == "" {
		return nil, ErrInvalidSession
	}
	if m.revoked != nil && c.ID != "" && m.revoked.IsRevoked(ctx, c.ID) {
		return nil, ErrInvalidSession
	}

	ident := &Identity{
		UID:     c.Subject,
		Email:   c.Email,
		Name:    c.Name,
		Role:    roles.Resolve(c.Role),
		TokenID: c.ID,
	}
	if c.ExpiresAt != nil {
		ident.ExpiresAt = c.ExpiresAt.Time
	}
	return ident, nil
}

// Start writes the session cookie for ident.
func (m *Manager) Start(c *gin.Context, ident *Identity) error {
	signed, err := m.Encode(ident)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, signed, int(m.ttl.Seconds()), "/", "", m.secure, true)
	c.Set(identityKey, ident)
	return nil
}

// End deletes the cookie and revokes the current token id.
func (m *Manager) End(c *gin.Context) {
	if ident, ok := Current(c); ok && m.revoked != nil && ident.TokenID != "" {
		ttl := time.Until(ident.ExpiresAt)
		if ttl > 0 {
			if err := m.revoked.Revoke(c.Request.Context(), ident.TokenID, ttl); err != nil {
				m.log.Warn("session revoke failed", zap.String("uid", ident.UID), zap.Error(err))
			}
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
	c.Set(identityKey, nil)
}

// Middleware loads the cookie into the request context. It never rejects a
// request; handlers decide what an absent session means.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(secureKey, m.secure)
		raw, err := c.Cookie(CookieName)
		if err == nil && raw != "" {
			ident, err := m.Decode(c.Request.Context(), raw)
			if err == nil {
				c.Set(identityKey, ident)
				c.Set(logging.UIDKey, ident.UID)
			}
		}
		c.Next()
	}
}

// Current returns the identity loaded for this request.
func Current(c *gin.Context) (*Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	ident, ok := v.(*Identity)
	if !ok || ident == nil {
		return nil, false
	}
	return ident, true
}
