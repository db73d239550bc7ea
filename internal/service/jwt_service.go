package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eatrite-api/internal/domain"
)

const (
	accessTokenType = "access"
	bearerTokenType = "bearer"
)

// JWTService emite y valida tokens JWT. No mantiene lista de revocacion: la
// expiracion es el unico mecanismo de invalidacion.
type JWTService struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	issuer    string
	now       func() time.Time
}

type IssuedToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

var ErrUnsupportedAlgorithm = errors.New("unsupported jwt algorithm")

func NewJWTService(secret, algorithm string, accessTTL time.Duration) (*JWTService, error) {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return &JWTService{
		secret:    []byte(secret),
		method:    method,
		accessTTL: accessTTL,
		issuer:    "eatrite-api",
		now:       time.Now,
	}, nil
}

// WithClock reemplaza el reloj usado para emitir y validar.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

func (s *JWTService) TTL() time.Duration {
	return s.accessTTL
}

// Issue firma un access token para el usuario. El instante de emision se
// trunca a segundos para que iat y exp sean exactos.
func (s *JWTService) Issue(user domain.User) (IssuedToken, error) {
	if len(s.secret) == 0 {
		return IssuedToken{}, domain.ErrMalformed
	}
	if strings.TrimSpace(user.ID) == "" {
		return IssuedToken{}, domain.ErrMalformed
	}
	now := s.now().UTC().Truncate(time.Second)
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{
		AccessToken: signed,
		TokenType:   bearerTokenType,
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

// Validate devuelve los claims de un access token valido. Falla con
// domain.ErrExpired si now >= exp y con domain.ErrMalformed en cualquier otro caso.
func (s *JWTService) Validate(token string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(token) == "" {
		return Claims{}, domain.ErrMalformed
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, domain.ErrExpired
		}
		return Claims{}, domain.ErrMalformed
	}
	if !s.isValidClaims(claims) {
		return Claims{}, domain.ErrMalformed
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if claims.TokenType != accessTokenType {
		return false
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
