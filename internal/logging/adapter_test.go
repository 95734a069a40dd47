package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestStoreAdapter(t *testing.T) {
	t.Parallel()

	writer := bytes.NewBuffer(nil)
	zlogger, err := CreateLogger(zerolog.TraceLevel, "json", writer)
	require.NoError(t, err)

	adapter := NewStoreAdapter(&zlogger)

	for _, tc := range []struct {
		name  string
		log   func(format string, args ...any)
		level string
	}{
		{"debug", adapter.Debugf, "debug"},
		{"info-is-demoted", adapter.Infof, "debug"},
		{"warning", adapter.Warningf, "warn"},
		{"error", adapter.Errorf, "error"},
	} {
		writer.Reset()
		tc.log("store opened in %s\n", "memory")
		require.Contains(t, writer.String(), `"level":"`+tc.level+`"`, tc.name)
		require.Contains(t, writer.String(), `"component":"badger"`, tc.name)
		require.Contains(t, writer.String(), `"message":"store opened in memory"`, tc.name)
	}
}

func TestStoreAdapterRespectsLevel(t *testing.T) {
	t.Parallel()

	writer := bytes.NewBuffer(nil)
	zlogger, err := CreateLogger(zerolog.InfoLevel, "json", writer)
	require.NoError(t, err)

	NewStoreAdapter(&zlogger).Infof("All %d tables opened", 0)
	require.Empty(t, writer.String())
}
