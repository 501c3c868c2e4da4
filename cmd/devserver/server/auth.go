package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Cookie lifetimes match the production service
const (
	accessTTL  = 3 * time.Hour
	refreshTTL = 14 * 24 * time.Hour

	accessCookie  = "access_token"
	refreshCookie = "refresh_token"

	userContextKey = "auth_user"
)

// mintToken issues an HS256 token of the given type for a user
func (s *Server) mintToken(userID int, username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        username,
		"uid":        userID,
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// parseToken verifies a token and checks its type claim
func (s *Server) parseToken(raw, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	if claims["token_type"] != wantType {
		return nil, fmt.Errorf("wrong token type")
	}
	return claims, nil
}

// setAuthCookies installs fresh token cookies on the response
func setAuthCookies(c echo.Context, access, refresh string) {
	c.SetCookie(tokenCookie(accessCookie, access, accessTTL))
	if refresh != "" {
		c.SetCookie(tokenCookie(refreshCookie, refresh, refreshTTL))
	}
}

// clearAuthCookies expires both token cookies
func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokenCookie(accessCookie, "", -time.Hour))
	c.SetCookie(tokenCookie(refreshCookie, "", -time.Hour))
}

func tokenCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// requireAuth guards a route: it verifies the access cookie and stores
// the authenticated user in the request context. Missing, expired, and
// forged tokens all answer 401.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(accessCookie)
		if err != nil || cookie.Value == "" {
			return c.JSON(http.StatusUnauthorized, detail("Authentication credentials were not provided"))
		}

		claims, err := s.parseToken(cookie.Value, "access")
		if err != nil {
			return c.JSON(http.StatusUnauthorized, detail("Token is invalid or expired"))
		}

		uid, ok := claims["uid"].(float64)
		if !ok {
			return c.JSON(http.StatusUnauthorized, detail("Token is invalid or expired"))
		}

		user, err := s.store.UserByID(int(uid))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, detail("Token is invalid or expired"))
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// currentUser returns the user stored by requireAuth
func currentUser(c echo.Context) *User {
	return c.Get(userContextKey).(*User)
}

func detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}
