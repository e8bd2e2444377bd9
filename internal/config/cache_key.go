package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizKey returns the cache key holding a quiz with its answer key.
func (r *CacheKeyStruct) QuizKey(quizID string) string {
	return fmt.Sprintf("quiz:%s", quizID)
}

// RevokedTokenKey returns the cache key marking a JWT (by jti) as logged out.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// UserNotificationChannel returns the Redis PubSub channel for a user's live notifications.
func (r *CacheKeyStruct) UserNotificationChannel(userID string) string {
	return fmt.Sprintf("user:%s:notifications", userID)
}

var CacheKey = NewCacheKeyStruct()
