package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

// Scope 前台與後台各自發 token, 互不通用
type Scope string

const (
	ScopeCustomer Scope = "customer"
	ScopeAdmin    Scope = "admin"
)

type Payload struct {
	UserID int    `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Scope  Scope  `json:"scope"`
	jwt.RegisteredClaims
}

type Maker interface {
	CreateToken(userID int, email, name, role string, scope Scope, duration time.Duration) (string, *Payload, error)
	VertifyToken(token string) (*Payload, error)
}

const minSecretKeySize = 32

type JWTMaker struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

func NewJWTMaker(secretKey, issuer string) (*JWTMaker, error) {
	if len(secretKey) < minSecretKeySize {
		return nil, fmt.Errorf("invalid key size: must be at least %d characters", minSecretKeySize)
	}
	return &JWTMaker{secretKey: []byte(secretKey), issuer: issuer, now: time.Now}, nil
}

func (m *JWTMaker) CreateToken(userID int, email, name, role string, scope Scope, duration time.Duration) (string, *Payload, error) {
	now := m.now()
	payload := &Payload{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := t.SignedString(m.secretKey)
	if err != nil {
		return "", nil, err
	}
	return signed, payload, nil
}

func (m *JWTMaker) VertifyToken(token string) (*Payload, error) {
	parsed, err := jwt.ParseWithClaims(token, &Payload{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	payload, ok := parsed.Claims.(*Payload)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return payload, nil
}

var _ Maker = (*JWTMaker)(nil)
