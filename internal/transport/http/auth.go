package http

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"quizpulse-service/internal/domain"
)

// AdminAuth checks the shared admin password and issues HS256 tokens.
type AdminAuth struct {
	passwordHash []byte
	password     string
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewAdminAuth prefers a bcrypt hash; the plain password is a fallback for local setups.
func NewAdminAuth(passwordHash, password, secret string, ttl time.Duration) (*AdminAuth, error) {
	if secret == "" {
		return nil, errors.New("admin jwt secret not configured")
	}
	if passwordHash == "" && password == "" {
		return nil, errors.New("admin password not configured")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminAuth{
		passwordHash: []byte(passwordHash),
		password:     password,
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

func (a *AdminAuth) checkPassword(candidate string) bool {
	if len(a.passwordHash) > 0 {
		return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(a.password), []byte(candidate)) == 1
}

// Issue returns a signed admin token when password matches.
func (a *AdminAuth) Issue(password string) (string, time.Time, error) {
	if !a.checkPassword(password) {
		return "", time.Time{}, domain.ErrUnauthorized
	}
	now := a.now()
	expires := now.Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

func (a *AdminAuth) verify(tokenString string) bool {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return ok && claims["role"] == "admin"
}

// Middleware marks requests carrying a valid admin bearer token. Requests
// without one pass through unmarked; admin-only operations reject them.
func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if tokenString, ok := strings.CutPrefix(header, "Bearer "); ok && a.verify(strings.TrimSpace(tokenString)) {
			r = r.WithContext(domain.WithAdmin(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}
