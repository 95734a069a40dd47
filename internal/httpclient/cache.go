package httpclient

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/arismemo/quotation/internal/database"
)

type LookupResult string

const (
	LookupHit     LookupResult = "hit"
	LookupMiss    LookupResult = "miss"
	LookupExpired LookupResult = "expired"
)

// ResponseCache keeps successful GET bodies keyed by their resolved URL for a
// fixed freshness window. Nothing survives Close.
type ResponseCache struct {
	db        *database.Store[CacheEntry, *CacheEntry]
	freshness time.Duration
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewResponseCache(freshness time.Duration, logger *zerolog.Logger) (*ResponseCache, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	// Ensure the db logger is not too chatty
	dbLogger := *logger
	if dbLogger.GetLevel() < zerolog.WarnLevel {
		dbLogger = dbLogger.Level(zerolog.WarnLevel)
	}

	db, err := database.NewInMemory[CacheEntry](&dbLogger)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the response cache: %w", err)
	}

	return &ResponseCache{db: db, freshness: freshness, logger: logger, now: time.Now}, nil
}

func (c *ResponseCache) Close() error {
	return c.db.Close()
}

// Lookup returns the payload stored for key if it is younger than the
// freshness window. Expired entries are left in place and overwritten by the
// next Store.
func (c *ResponseCache) Lookup(key string) ([]byte, LookupResult) {
	entry, err := c.db.Get(key)
	if err != nil {
		if !errors.Is(err, database.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Str("key", key).Msg("unable to read from the response cache")
		}
		return nil, LookupMiss
	}

	if c.now().Sub(entry.StoredAt) >= c.freshness {
		return nil, LookupExpired
	}
	return entry.Payload, LookupHit
}

func (c *ResponseCache) Store(key string, payload []byte) {
	entry := CacheEntry{Payload: payload, StoredAt: c.now()}
	if err := c.db.Put(key, entry); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("unable to save response in the cache")
	}
}

func (c *ResponseCache) Clear() error {
	if err := c.db.Clear(); err != nil {
		return fmt.Errorf("unable to clear the response cache: %w", err)
	}
	return nil
}

func (c *ResponseCache) Len() int {
	n, err := c.db.Len()
	if err != nil {
		c.logger.Warn().Err(err).Msg("unable to count cached responses")
	}
	return n
}
