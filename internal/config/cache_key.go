package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizSessionKey returns the cache key holding a visitor's quiz session.
func (r *CacheKeyStruct) QuizSessionKey(sessionID string) string {
	return fmt.Sprintf("quiz:session:%s", sessionID)
}

// QuizStreamLockKey returns the cache key marking an in-flight result stream.
func (r *CacheKeyStruct) QuizStreamLockKey(sessionID string) string {
	return fmt.Sprintf("quiz:session:%s:streaming", sessionID)
}

var CacheKey = NewCacheKeyStruct()
