package utils

import (
	"sync"
	"time"
)

// Revoked token ids (jti) with the time their token would have expired anyway.
var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

func BlacklistToken(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()

	now := time.Now()
	for id, expiry := range blacklistedTokens {
		if now.After(expiry) {
			delete(blacklistedTokens, id)
		}
	}
	blacklistedTokens[tokenID] = expiresAt
}

func IsTokenBlacklisted(tokenID string) bool {
	blacklistMutex.RLock()
	defer blacklistMutex.RUnlock()

	expiry, exists := blacklistedTokens[tokenID]
	return exists && time.Now().Before(expiry)
}
