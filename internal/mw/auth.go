package mw

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cakeshop/internal/service"
)

type contextKey string

const (
	AdminCtxKey contextKey = "admin"

	CookieName = "admin_token"
	tokenTTL   = 12 * time.Hour
	adminRole  = "staff"
)

const unauthorizedHTML = `<!doctype html><meta name=viewport content="width=device-width,initial-scale=1">
<title>Unauthorized</title>
<h3>Unauthorized</h3>
<p>Sign in at <a href="/admin/login">/admin/login</a>, or append <code>?pw=&lt;password&gt;</code> to the URL.</p>
`

// IssueToken signs a staff session token.
func IssueToken(secret string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": adminRole,
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(tokenTTL)),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// SetSessionCookie stores a fresh token in the admin cookie.
func SetSessionCookie(w http.ResponseWriter, secret string) error {
	now := time.Now()
	token, err := IssueToken(secret, now)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// AdminAuth lets a request through when it carries a valid staff token in
// the cookie or Authorization header, or the correct ?pw= password.
func AdminAuth(authSvc *service.AuthService, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString := tokenFromRequest(r); tokenString != "" {
				if err := validateToken(tokenString, jwtSecret); err == nil {
					ctx := context.WithValue(r.Context(), AdminCtxKey, adminRole)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if pw := r.URL.Query().Get("pw"); pw != "" && authSvc.Authenticate(pw) == nil {
				if err := SetSessionCookie(w, jwtSecret); err != nil {
					http.Error(w, "token generation failed", http.StatusInternalServerError)
					return
				}
				ctx := context.WithValue(r.Context(), AdminCtxKey, adminRole)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(unauthorizedHTML))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

func validateToken(tokenString, secret string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid claims")
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return errors.New("not a staff token")
	}
	return nil
}
