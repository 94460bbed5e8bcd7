package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InviteTTL is how long a psychologist invite token stays redeemable.
const InviteTTL = 72 * time.Hour

// Invite is the record stored against an invite token. Invites live in Redis
// with a TTL so they survive process restarts and scale across instances.
type Invite struct {
	Email     string    `json:"email"`
	InvitedBy string    `json:"invitedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// generateSecureToken returns a base32 encoded random string (without padding)
// truncated to the desired length.
func generateSecureToken(length int) (string, error) {
	numBytes := (length*5 + 7) / 8
	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	token := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	if len(token) > length {
		token = token[:length]
	}
	return token, nil
}

func inviteKey(token string) string {
	return "invite:" + token
}

// CreateInvite stores a new invite and returns its token.
func CreateInvite(ctx context.Context, inv Invite) (string, error) {
	token, err := generateSecureToken(24)
	if err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}
	inv.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(inv)
	if err != nil {
		return "", fmt.Errorf("failed to encode invite: %w", err)
	}

	client := GetInviteCacheClient()
	if err := client.Set(ctx, inviteKey(token), payload, InviteTTL).Err(); err != nil {
		GetLogger().Error("Failed to store invite", zap.Error(err))
		return "", fmt.Errorf("failed to store invite")
	}
	return token, nil
}

// ConsumeInvite fetches an invite by token and deletes it so it is single-use.
func ConsumeInvite(ctx context.Context, token string) (*Invite, error) {
	client := GetInviteCacheClient()

	raw, err := client.Get(ctx, inviteKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("invite not found or expired")
		}
		return nil, fmt.Errorf("failed to retrieve invite: %w", err)
	}

	var inv Invite
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		return nil, fmt.Errorf("failed to decode invite: %w", err)
	}

	if err := client.Del(ctx, inviteKey(token)).Err(); err != nil {
		GetLogger().Error("Failed to delete invite after redemption", zap.Error(err))
	}
	return &inv, nil
}
