package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionStateKey returns the cache key for a browser session's state object
func (r *CacheKeyStruct) SessionStateKey(sid string) string {
	return fmt.Sprintf("studylite:session:%s", sid)
}

var CacheKey = NewCacheKeyStruct()
