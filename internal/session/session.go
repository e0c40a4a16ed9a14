// Package session issues, resolves, and revokes the browser session
// credential: a signed JWT carried in an HTTP-only cookie. Resolution never
// fails hard — any missing, malformed, expired, or forged credential degrades
// to anonymous, so a bad token can never resolve to another user's identity.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the cookie that carries the session credential.
const CookieName = "todo_session"

// Claims represents the session token claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// Manager mints and validates session credentials.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager creates a session Manager. secure controls the cookie's Secure
// attribute and should be true outside development.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Issue signs a token for userID and attaches it to the response as an
// HTTP-only, SameSite-Lax cookie scoped to the root path.
func (m *Manager) Issue(w http.ResponseWriter, userID int64) error {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "taskflow",
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Resolve extracts the user id from the request's session cookie. The second
// return value is false when the request is anonymous: no cookie, or a cookie
// that fails parsing or validation for any reason.
func (m *Manager) Resolve(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.secret, nil
	}, jwt.WithIssuer("taskflow"), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID <= 0 {
		return 0, false
	}

	return claims.UserID, true
}

// Revoke clears the session cookie. Calling it without an active session is a
// no-op success.
func (m *Manager) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
