// Package auth verifies bearer tokens minted by the phone-auth collaborator
// and exposes the authenticated session to handlers. The OTP exchange itself
// happens outside this service.
package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/codespace555/arya-co/internal/models"
)

const sessionKey = "session"

type Claims struct {
	UserID string `json:"userId"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Session is the authenticated subject as handlers see it.
type Session struct {
	UserID string
	Phone  string
	Role   string
}

func (s Session) Admin() bool { return s.Role == models.RoleAdmin }

// Middleware parses the Authorization header and stores the session on the
// request context.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader("Authorization")
		if len(tokenStr) < 8 {
			c.AbortWithStatusJSON(401, gin.H{"error": "missing token"})
			return
		}
		tokenStr = tokenStr[7:] // strip "Bearer "
		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid token"})
			return
		}
		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid token"})
			return
		}
		c.Set(sessionKey, Session{UserID: claims.UserID, Phone: claims.Phone, Role: claims.Role})
		c.Next()
	}
}

// RequireAdmin aborts requests whose session lacks the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := FromContext(c)
		if !ok || !s.Admin() {
			c.AbortWithStatusJSON(403, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// FromContext returns the session set by Middleware.
func FromContext(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

// Token mints a signed token for a session. The production issuer lives with
// the OTP verifier; this is used by tooling and tests.
func Token(secret []byte, s Session, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: s.UserID,
		Phone:  s.Phone,
		Role:   s.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	return signed, errors.Wrap(err, "sign token")
}
