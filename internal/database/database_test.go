package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"

	"github.com/arismemo/quotation/internal/database"
	"github.com/arismemo/quotation/internal/testutils"
)

type note struct {
	Text string
}

func (n note) MarshalMsg(b []byte) ([]byte, error) {
	return msgp.AppendString(b, n.Text), nil
}

func (n *note) UnmarshalMsg(b []byte) ([]byte, error) {
	var err error
	n.Text, b, err = msgp.ReadStringBytes(b)
	return b, err
}

func newStore(t *testing.T) *database.Store[note, *note] {
	t.Helper()

	store, err := database.NewInMemory[note](testutils.TestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestGetReportsMissingKeys(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	_, err := store.Get("/api/favorites")
	require.ErrorIs(t, err, database.ErrKeyNotFound)
}

func TestPutThenGet(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	require.NoError(t, store.Put("/api/favorites", note{"first"}))
	require.NoError(t, store.Put("/api/favorites", note{"second"}))
	require.NoError(t, store.Put("/api/history", note{"other"}))

	value, err := store.Get("/api/favorites")
	require.NoError(t, err)
	require.Equal(t, note{"second"}, value)

	count, err := store.Len()
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestClearRemovesEverything(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	require.NoError(t, store.Put("/api/favorites", note{"a"}))
	require.NoError(t, store.Put("/api/history?offset=0", note{"b"}))
	require.NoError(t, store.Clear())

	_, err := store.Get("/api/favorites")
	require.ErrorIs(t, err, database.ErrKeyNotFound)

	count, err := store.Len()
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, store.Put("/api/favorites", note{"c"}))
	value, err := store.Get("/api/favorites")
	require.NoError(t, err)
	require.Equal(t, note{"c"}, value)
}

func TestNewInMemoryDoesNotPanic(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		store, err := database.NewInMemory[note](testutils.TestLogger(t))
		require.NoError(t, err)
		require.NoError(t, store.Close())
	})
}
