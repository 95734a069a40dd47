package testutils

import (
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogger(tb testing.TB) *zerolog.Logger {
	tb.Helper()

	logger := zerolog.New(zerolog.NewConsoleWriter(zerolog.ConsoleTestWriter(tb))).
		Level(zerolog.TraceLevel)
	return &logger
}

// RequestCounter records how many requests reached each wrapped handler.
type RequestCounter struct {
	calls map[string]int
	lock  sync.Mutex
}

func NewRequestCounter() *RequestCounter {
	return &RequestCounter{calls: make(map[string]int)}
}

func (m *RequestCounter) Wrap(next http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.lock.Lock()
		m.calls[name] += 1
		m.lock.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (m *RequestCounter) Count(name string) int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.calls[name]
}
