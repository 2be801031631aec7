package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
	ErrMissingSecret    = errors.New("jwt secret is not configured")
)

// Claims are the session claims carried by a storefront credential
type Claims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"user_id"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// TokenInspector turns HMAC-signed session credentials into identities
type TokenInspector struct {
	secret      []byte
	issuer      string
	expiration  time.Duration
	revocations RevocationList
	now         func() time.Time
}

// InspectorOption configures a TokenInspector
type InspectorOption func(*TokenInspector)

// WithRevocations rejects credentials whose id is on list
func WithRevocations(list RevocationList) InspectorOption {
	return func(i *TokenInspector) {
		i.revocations = list
	}
}

// WithClock sets the time source used for issuing and validation
func WithClock(now func() time.Time) InspectorOption {
	return func(i *TokenInspector) {
		i.now = now
	}
}

// NewTokenInspector creates an inspector for cfg
func NewTokenInspector(cfg config.JWTConfig, opts ...InspectorOption) *TokenInspector {
	i := &TokenInspector{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: cfg.Expiration,
		now:        time.Now,
	}
	if i.expiration <= 0 {
		i.expiration = 24 * time.Hour
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IssueInput describes the session a credential is issued for
type IssueInput struct {
	UserID   string
	Username string
	Roles    []string
}

// Issue signs a credential for in. It returns the token and its expiry.
func (i *TokenInspector) Issue(in IssueInput) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	if strings.TrimSpace(in.UserID) == "" {
		return "", time.Time{}, ErrMissingUserID
	}

	now := i.now()
	expiresAt := now.Add(i.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   in.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   in.UserID,
		Username: in.Username,
		Roles:    in.Roles,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse validates credential and returns its claims
func (i *TokenInspector) Parse(ctx context.Context, credential string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, ErrMissingSecret
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(i.issuer))
	}

	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	}, parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}

	if i.revocations != nil && claims.ID != "" {
		revoked, err := i.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Resolve implements identity.Resolver
func (i *TokenInspector) Resolve(ctx context.Context, credential string) (identity.Identity, error) {
	claims, err := i.Parse(ctx, credential)
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.Identity{
		UserID:     claims.UserID,
		Username:   claims.Username,
		Roles:      claims.Roles,
		Credential: credential,
	}, nil
}

// Revoke puts the id of credential on the revocation list until it expires.
// Credentials that are already invalid need no revocation.
func (i *TokenInspector) Revoke(ctx context.Context, credential string) error {
	if i.revocations == nil {
		return nil
	}
	claims, err := i.Parse(ctx, credential)
	if err != nil {
		return nil
	}
	if claims.ID == "" {
		return nil
	}
	ttl := i.expiration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(i.now())
	}
	if ttl <= 0 {
		return nil
	}
	return i.revocations.Revoke(ctx, claims.ID, ttl)
}

var _ identity.Resolver = (*TokenInspector)(nil)
