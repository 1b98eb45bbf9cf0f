package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	userModel "condominio_backend/internals/features/users/user/model"
	helper "condominio_backend/internals/helpers"
)

const (
	accessTTLDefault = 24 * time.Hour
	tokenTypeAccess  = "access"
	expirySkew       = 30 * time.Second
)

// AccessClaims adalah isi access token. Roles & condominium_ids hanya untuk
// kenyamanan klien; middleware tetap memuat ulang dari database.
type AccessClaims struct {
	Type           string   `json:"typ"`
	Email          string   `json:"email"`
	FullName       string   `json:"full_name"`
	Roles          []string `json:"roles"`
	CondominiumIDs []string `json:"condominium_ids"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Subject))
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  helper.Clock
}

func NewTokenIssuer(secret string, ttl time.Duration, clock helper.Clock) *TokenIssuer {
	if ttl <= 0 {
		ttl = accessTTLDefault
	}
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, clock: clock}
}

func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue menandatangani access token HS256.
func (t *TokenIssuer) Issue(user userModel.UserModel, roles []string, condominiumIDs []uuid.UUID) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, helper.Validation("JWT_SECRET is not configured")
	}
	now := t.clock.Now().UTC()
	exp := now.Add(t.ttl)
	claims := AccessClaims{
		Type:     tokenTypeAccess,
		Email:    user.Email,
		FullName: user.FullName,
		Roles:    roles,
		CondominiumIDs: lo.Map(condominiumIDs, func(id uuid.UUID, _ int) string {
			return id.String()
		}),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse memverifikasi signature lalu exp terhadap clock milik issuer.
func (t *TokenIssuer) Parse(raw string) (*AccessClaims, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "\"'")
	if raw == "" {
		return nil, helper.Unauthorized("missing access token")
	}
	claims := &AccessClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	if _, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}); err != nil {
		return nil, helper.Unauthorized("invalid access token")
	}
	if claims.Type != tokenTypeAccess {
		return nil, helper.Unauthorized("invalid access token")
	}
	if claims.ExpiresAt == nil || t.clock.Now().After(claims.ExpiresAt.Time.Add(expirySkew)) {
		return nil, helper.Unauthorized("access token expired")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, helper.Unauthorized("invalid access token")
	}
	return claims, nil
}
