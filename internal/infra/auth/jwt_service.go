package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"accounts/config"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte        // Process-wide signing key, read-only after startup.
	ttl    time.Duration // Lifetime embedded in the exp claim.
	issuer string
	now    func() time.Time
}

// JWTOption customizes a jwtService.
type JWTOption func(*jwtService)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) JWTOption {
	return func(s *jwtService) {
		s.now = now
	}
}

// NewJWTService is the constructor for jwtService. It refuses to build a service without a secret.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	return NewJWTServiceWithOptions(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
}

// NewJWTServiceWithOptions builds a token service from explicit values.
func NewJWTServiceWithOptions(secret string, ttl time.Duration, issuer string, opts ...JWTOption) (service.TokenService, error) {
	if secret == "" {
		return nil, domainerrors.ErrSigningKeyMissing.WrapMessage("jwt secret must be provided")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	s := &jwtService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Issue creates a signed token carrying the account id.
func (s *jwtService) Issue(accountID string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.WithStack(domainerrors.ErrSigningKeyMissing)
	}

	now := s.now()
	claims := &service.Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks the token signature, algorithm and expiry.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}
	if !token.Valid || claims.AccountID == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
