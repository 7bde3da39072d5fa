package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's login session.
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// TestPayloadKey returns the cache key for a published test's student payload.
func (r *CacheKeyStruct) TestPayloadKey(testID string) string {
	return fmt.Sprintf("test:%s:payload", testID)
}

// AttemptStartKey returns the cache key for a user's attempt start timestamp.
func (r *CacheKeyStruct) AttemptStartKey(testID string, userID int) string {
	return fmt.Sprintf("user:%d:test:%s:attempt_start", userID, testID)
}

var CacheKey = NewCacheKeyStruct()
