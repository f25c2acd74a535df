package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/platform/ctxutil"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

// AuthService verifies owner tokens issued by the external identity
// provider. Tokens are HS256 with a shared secret; sub is the owner id.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type AuthConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
	Leeway    time.Duration
}

type authService struct {
	log    *logger.Logger
	secret []byte
	parser *jwt.Parser
}

func NewAuthService(log *logger.Logger, cfg AuthConfig) (AuthService, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET_KEY")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	return &authService{
		log:    log.With("service", "AuthService"),
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, fmt.Errorf("missing token")
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := as.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return as.secret, nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	if parsed == nil || !parsed.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil || ownerID == uuid.Nil {
		return ctx, fmt.Errorf("invalid subject in token")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{OwnerID: ownerID}), nil
}
