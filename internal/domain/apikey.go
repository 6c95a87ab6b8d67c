package domain

import "context"

// API key access levels. Unknown keys resolve to LevelInvalid.
const (
	LevelInvalid   = -1
	LevelUnlimited = 0
	LevelLimited   = 1
)

type APIKey struct {
	Key   string `json:"key" bson:"key"`
	Level int    `json:"level" bson:"level"`
}

// Quota maps an access level to the number of requests allowed per
// rate-limit window. limited is false for level 0, which has no cap.
func Quota(level int) (max int, limited bool) {
	switch level {
	case LevelUnlimited:
		return 0, false
	case LevelLimited:
		return 10, true
	default:
		return 0, true
	}
}

type KeyStore interface {
	// Add stores a key at the given level, minting a fresh key when the
	// argument is empty, and returns the stored key.
	Add(ctx context.Context, key string, level int) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Level returns LevelInvalid for unknown keys, without an error.
	Level(ctx context.Context, key string) (int, error)
	SetLevel(ctx context.Context, key string, level int) error
	Delete(ctx context.Context, key string) error
}
