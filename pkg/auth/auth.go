// Package auth provides the JWT identity layer for the HTTP transport.
// Authentication, permissions and session handling are explicitly out
// of scope for the transactional engine itself; this package
// exists only to establish the external contract at the transport
// boundary. The operator identity it validates stays on the request
// context; events emitted by the engine do not carry it in their
// `actor` field.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SimpleBookRental/backend/pkg/config"
)

// TokenType defines the type of token.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// OperatorRole is the staff role recorded on the token, used only for
// transport-layer route gating (e.g. approval endpoints), never
// consulted by the engine components themselves.
type OperatorRole string

const (
	RoleStaff   OperatorRole = "STAFF"
	RoleManager OperatorRole = "MANAGER"
	RoleAdmin   OperatorRole = "ADMIN"
)

// Operator is the minimal identity carried by a token.
type Operator struct {
	ID   string
	Name string
	Role OperatorRole
}

// Claims represents the JWT claims.
type Claims struct {
	OperatorID string       `json:"operator_id"`
	Name       string       `json:"name"`
	Role       OperatorRole `json:"role"`
	TokenType  TokenType    `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTService provides JWT token generation and validation.
type JWTService struct {
	config *config.JWTConfig
}

// NewJWTService creates a new JWTService.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{config: cfg}
}

// GenerateAccessToken generates a new access token.
func (s *JWTService) GenerateAccessToken(op *Operator) (string, error) {
	return s.generateToken(op, AccessToken, s.config.ExpirationHours)
}

// GenerateRefreshToken generates a new refresh token.
func (s *JWTService) GenerateRefreshToken(op *Operator) (string, error) {
	return s.generateToken(op, RefreshToken, s.config.RefreshExpiration)
}

// ValidateToken validates a token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

func (s *JWTService) generateToken(op *Operator, tokenType TokenType, expiration time.Duration) (string, error) {
	claims := &Claims{
		OperatorID: op.ID,
		Name:       op.Name,
		Role:       op.Role,
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "rental-engine-api",
			Subject:   op.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

// GetOperatorIDFromToken extracts the operator ID from a token.
func (s *JWTService) GetOperatorIDFromToken(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.OperatorID, nil
}

// IsManager checks whether role may approve purchase returns and issue
// vendor credit. Approval sits behind the transport's own
// authorization, not the engine.
func IsManager(role OperatorRole) bool {
	return role == RoleManager || role == RoleAdmin
}

// IsAdmin checks whether role is the administrator role.
func IsAdmin(role OperatorRole) bool {
	return role == RoleAdmin
}
