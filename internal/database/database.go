package database

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/rs/zerolog"
	"github.com/tinylib/msgp/msgp"

	"github.com/arismemo/quotation/internal/logging"
)

var ErrKeyNotFound = badger.ErrKeyNotFound

type encodable interface {
	msgp.Marshaler
}

type Ptr[T encodable] interface {
	*T
	msgp.Unmarshaler
}

// Store is an in-memory key value store. Nothing it holds survives Close.
type Store[T encodable, TPtr Ptr[T]] struct {
	db *badger.DB
}

func NewInMemory[T encodable, TPtr Ptr[T]](logger *zerolog.Logger) (*Store[T, TPtr], error) {
	badgerDB, err := badger.Open(
		badger.DefaultOptions("").
			WithInMemory(true).
			WithMemTableSize(16 << 20).
			WithCompression(options.None).
			WithBlockCacheSize(0).
			WithNumVersionsToKeep(1).
			WithLogger(logging.NewStoreAdapter(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to open the in-memory store: %w", err)
	}

	return &Store[T, TPtr]{badgerDB}, nil
}

func (s *Store[T, TPtr]) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("unable to close the store: %w", err)
	}
	return nil
}

func (s *Store[T, TPtr]) Get(key string) (T, error) {
	var value T

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return fmt.Errorf("unexpected error loading key: %w", err)
		}

		return item.Value(func(val []byte) error {
			var decoded TPtr = new(T)
			if _, err := decoded.UnmarshalMsg(val); err != nil {
				return fmt.Errorf(
					"entry in the store is not of the correct format, this should not happen: %w",
					err,
				)
			}
			value = *decoded
			return nil
		})
	})

	return value, err
}

func (s *Store[T, TPtr]) Put(key string, value T) error {
	data, err := value.MarshalMsg(nil)
	if err != nil {
		return fmt.Errorf("unable to encode entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("unable to save entry in the store: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *Store[T, TPtr]) Clear() error {
	keys, err := s.keys()
	if err != nil {
		return fmt.Errorf("unable to list entries: %w", err)
	}

	batch := s.db.NewWriteBatch()
	defer batch.Cancel()

	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return fmt.Errorf("unable to clear the store: %w", err)
		}
	}
	if err := batch.Flush(); err != nil {
		return fmt.Errorf("unable to clear the store: %w", err)
	}
	return nil
}

func (s *Store[T, TPtr]) keys() ([][]byte, error) {
	keys := [][]byte{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})

	return keys, err
}

func (s *Store[T, TPtr]) Len() (int, error) {
	keys, err := s.keys()
	return len(keys), err
}
