package model

import "time"

// TokenBlacklist: fallback blacklist di database bila Redis tidak dikonfigurasi.
// Yang disimpan HMAC token, bukan token mentah.
type TokenBlacklist struct {
	TokenBlacklistHash      string    `gorm:"column:token_blacklist_hash;size:64;primaryKey" json:"token_blacklist_hash"`
	TokenBlacklistExpiresAt time.Time `gorm:"column:token_blacklist_expires_at;not null;index" json:"token_blacklist_expires_at"`
	TokenBlacklistCreatedAt time.Time `gorm:"column:token_blacklist_created_at;autoCreateTime" json:"token_blacklist_created_at"`
}

func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
