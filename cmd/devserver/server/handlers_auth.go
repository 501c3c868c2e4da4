package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account
// POST /api/auth/register/
func (s *Server) Register(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, detail("malformed request body"))
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return c.JSON(http.StatusBadRequest, detail("username and password are required"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, detail("failed to hash password"))
	}

	user, err := s.store.CreateUser(creds.Username, hash)
	if err != nil {
		return c.JSON(http.StatusBadRequest, detail("username already taken"))
	}

	s.log.Info("user registered", "user", user.Username)
	return c.JSON(http.StatusCreated, detail("registered"))
}

// Login validates credentials and installs the token cookies
// POST /api/token/
func (s *Server) Login(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, detail("malformed request body"))
	}

	user, err := s.store.UserByName(creds.Username)
	if err != nil || bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, detail("No active account found with the given credentials"))
	}

	access, err := s.mintToken(user.ID, user.Username, "access", accessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, detail("failed to issue token"))
	}
	refresh, err := s.mintToken(user.ID, user.Username, "refresh", refreshTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, detail("failed to issue token"))
	}

	setAuthCookies(c, access, refresh)
	s.log.Info("user logged in", "user", user.Username)
	return c.JSON(http.StatusOK, detail("logged_in"))
}

// Refresh exchanges the refresh cookie for a new access cookie
// POST /api/token/refresh/
func (s *Server) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, detail("No refresh token"))
	}

	claims, err := s.parseToken(cookie.Value, "refresh")
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

	access, err := s.mintToken(user.ID, user.Username, "access", accessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, detail("failed to issue token"))
	}

	setAuthCookies(c, access, "")
	return c.JSON(http.StatusOK, detail("refreshed"))
}

// Logout expires both token cookies. Always succeeds, even without a
// session.
// POST /api/auth/logout/
func (s *Server) Logout(c echo.Context) error {
	clearAuthCookies(c)
	return c.JSON(http.StatusOK, detail("logged_out"))
}
