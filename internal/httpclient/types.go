package httpclient

import (
	"time"
)

//go:generate go tool github.com/tinylib/msgp -io=false
//msgp:tuple CacheEntry

// CacheEntry is a successful response body kept for the freshness window.
type CacheEntry struct {
	Payload  []byte
	StoredAt time.Time
}
