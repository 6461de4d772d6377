// Package auth resolves the acting employee for API operations. Session
// issuance lives in the platform's auth service; this package only validates
// the JWT it issues and maps the employee's role onto scheduling actions.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/peoplehub/events-api/internal/config"
	"github.com/peoplehub/events-api/internal/models"
	"gorm.io/gorm"
)

const TokenDuration = 24 * time.Hour

// AuthInput is embedded in huma request structs that need an actor.
type AuthInput struct {
	Cookie string `header:"Cookie"`
}

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// GenerateToken signs a token for an employee. Used by tests and the dev
// login path; production tokens come from the auth service with the same
// secret.
func (h *AuthHandler) GenerateToken(employeeID string) (string, error) {
	claims := jwt.MapClaims{
		"employee_id": employeeID,
		"exp":         time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Authorize validates the auth_token cookie and loads the acting employee.
func (h *AuthHandler) Authorize(ctx context.Context, cookie string) (*models.Employee, error) {
	tokenString := cookieValue(cookie, "auth_token")
	if tokenString == "" {
		return nil, huma.Error401Unauthorized("No token found")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, huma.Error401Unauthorized("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, huma.Error401Unauthorized("Invalid token claims")
	}
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return nil, huma.Error401Unauthorized("Invalid token claims")
	}

	var employee models.Employee
	if err := h.db.WithContext(ctx).First(&employee, "id = ?", employeeID).Error; err != nil {
		return nil, huma.Error401Unauthorized("Unknown employee")
	}
	if !employee.IsActive {
		return nil, huma.Error403Forbidden("Employee account is inactive")
	}
	return &employee, nil
}

// cookieValue extracts one cookie from a raw Cookie header.
func cookieValue(header, name string) string {
	request := http.Request{Header: http.Header{"Cookie": {header}}}
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
