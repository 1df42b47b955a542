package models

import "time"

// RevokedToken marks an access token id as no longer usable.
type RevokedToken struct {
	JTI       string    `db:"jti" json:"jti"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	RevokedAt time.Time `db:"revoked_at" json:"revoked_at"`
}
