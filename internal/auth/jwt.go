package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rpattn/moviesapi/internal/domain"
)

// Claims are the custom claims carried by movie API tokens.
type Claims struct {
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	Admin         bool   `json:"admin"`
	TrustedMember bool   `json:"trustedMember"`
	jwt.RegisteredClaims
}

// TokenRequest is the payload accepted by the token endpoint.
type TokenRequest struct {
	UserID       string       `json:"userId" validate:"required,uuid"`
	Email        string       `json:"email" validate:"required,email"`
	CustomClaims CustomClaims `json:"customClaims"`
}

type CustomClaims struct {
	Admin         bool `json:"admin"`
	TrustedMember bool `json:"trustedMember"`
}

// JWTManager signs and validates HS256 tokens.
type JWTManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewJWTManager(secret, issuer, audience string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required but was empty")
	}
	return &JWTManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// GenerateToken issues a token for req. The subject is the email and jti a random uuid.
func (m *JWTManager) GenerateToken(req TokenRequest) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:        req.UserID,
		Email:         req.Email,
		Admin:         req.CustomClaims.Admin,
		TrustedMember: req.CustomClaims.TrustedMember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   req.Email,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, issuer, audience and lifetime, and returns the caller identity.
func (m *JWTManager) ValidateToken(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: userId claim is not a uuid", domain.ErrUnauthorized)
	}

	return Identity{
		UserID:        userID,
		Email:         claims.Email,
		Admin:         claims.Admin,
		TrustedMember: claims.TrustedMember,
	}, nil
}
