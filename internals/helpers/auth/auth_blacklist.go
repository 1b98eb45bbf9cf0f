package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "condominio_backend/internals/features/users/auth/model"
	helper "condominio_backend/internals/helpers"
)

// TokenBlacklist menyimpan access token yang sudah logout sampai token itu kedaluwarsa.
type TokenBlacklist interface {
	Add(ctx context.Context, rawAccessToken string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, rawAccessToken string) (bool, error)
}

const blacklistKeyPrefix = "auth:blacklist:"

// token tidak pernah disimpan mentah
func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

/* =========================================================
   Redis
========================================================= */

type RedisBlacklist struct {
	Client *redis.Client
	Secret string
	Clock  helper.Clock
}

func NewRedisBlacklist(client *redis.Client, secret string, clock helper.Clock) *RedisBlacklist {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &RedisBlacklist{Client: client, Secret: secret, Clock: clock}
}

func (b *RedisBlacklist) Add(ctx context.Context, rawAccessToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawAccessToken) == "" {
		return nil
	}
	ttl := expiresAt.Sub(b.Clock.Now())
	if ttl <= 0 {
		// sudah kedaluwarsa; tidak perlu disimpan
		return nil
	}
	return b.Client.Set(ctx, blacklistKeyPrefix+hmacHex(rawAccessToken, b.Secret), 1, ttl).Err()
}

func (b *RedisBlacklist) IsBlacklisted(ctx context.Context, rawAccessToken string) (bool, error) {
	if strings.TrimSpace(rawAccessToken) == "" {
		return false, nil
	}
	n, err := b.Client.Exists(ctx, blacklistKeyPrefix+hmacHex(rawAccessToken, b.Secret)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

/* =========================================================
   Database (fallback tanpa Redis)
========================================================= */

type DBBlacklist struct {
	DB     *gorm.DB
	Secret string
	Clock  helper.Clock
}

func NewDBBlacklist(db *gorm.DB, secret string, clock helper.Clock) *DBBlacklist {
	if clock == nil {
		clock = helper.SystemClock{}
	}
	return &DBBlacklist{DB: db, Secret: secret, Clock: clock}
}

func (b *DBBlacklist) Add(ctx context.Context, rawAccessToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawAccessToken) == "" || !expiresAt.After(b.Clock.Now()) {
		return nil
	}
	row := authModel.TokenBlacklist{
		TokenBlacklistHash:      hmacHex(rawAccessToken, b.Secret),
		TokenBlacklistExpiresAt: expiresAt.UTC(),
	}
	return b.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_blacklist_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"token_blacklist_expires_at"}),
		}).
		Create(&row).Error
}

func (b *DBBlacklist) IsBlacklisted(ctx context.Context, rawAccessToken string) (bool, error) {
	if strings.TrimSpace(rawAccessToken) == "" {
		return false, nil
	}
	var row authModel.TokenBlacklist
	err := b.DB.WithContext(ctx).
		Where("token_blacklist_hash = ? AND token_blacklist_expires_at > ?", hmacHex(rawAccessToken, b.Secret), b.Clock.Now().UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpired menghapus baris yang sudah lewat masa berlakunya.
func (b *DBBlacklist) PurgeExpired(ctx context.Context) (int64, error) {
	res := b.DB.WithContext(ctx).
		Where("token_blacklist_expires_at <= ?", b.Clock.Now().UTC()).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
