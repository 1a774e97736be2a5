package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "session"

const sessionIDKey = "session_id"

// SessionClaims represents the session token claims
type SessionClaims struct {
	SessionID uuid.UUID `json:"session_id"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies signed session cookies
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// GenerateToken signs a token for a session ID
func (m *SessionManager) GenerateToken(sessionID uuid.UUID) (string, error) {
	claims := &SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken validates a token and returns its session ID
func (m *SessionManager) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid session claims")
	}
	return claims.SessionID, nil
}

// Middleware resolves the session of the request, starting a new one when the cookie
// is missing, expired or tampered with. The token is re-issued on every request so the
// cookie slides with the server-side TTL.
func (m *SessionManager) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := uuid.Nil
		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			if id, err := m.ParseToken(cookie.Value); err == nil {
				sessionID = id
			}
		}
		if sessionID == uuid.Nil {
			sessionID = uuid.New()
		}

		token, err := m.GenerateToken(sessionID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue session")
		}
		c.SetCookie(&http.Cookie{
			Name:     SessionCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   int(m.ttl.Seconds()),
		})

		c.Set(sessionIDKey, sessionID)
		return next(c)
	}
}

// GetSessionID extracts the session ID from echo context
func GetSessionID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session_id not found in context")
	}
	return id, nil
}
