package service

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSigningMethod = errors.New("unexpected token signing method")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

// ActorClaims identifies who is performing operations; the actor name flows
// into every audit record.
type ActorClaims struct {
	Actor   string `json:"actor"`
	ActorID uint64 `json:"actorId"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(actor string, actorID uint64) (string, error)
	ValidateToken(tokenString string) (*ActorClaims, error)
}

type jwtService struct {
	secretKey string
	tokenTTL  time.Duration
}

func NewJWTService(secretKey string, tokenTTL time.Duration) JWTService {
	return &jwtService{secretKey: secretKey, tokenTTL: tokenTTL}
}

func (s *jwtService) GenerateToken(actor string, actorID uint64) (string, error) {
	claims := &ActorClaims{
		Actor:   actor,
		ActorID: actorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(s.secretKey))
}

func (s *jwtService) ValidateToken(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
