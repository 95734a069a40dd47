package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// StoreAdapter forwards the in-memory store's printf-style logs to zerolog.
// Informational lines about table and compaction bookkeeping are demoted to
// debug.
type StoreAdapter struct {
	logger zerolog.Logger
}

func NewStoreAdapter(logger *zerolog.Logger) *StoreAdapter {
	return &StoreAdapter{logger.With().Str("component", "badger").Logger()}
}

func (a *StoreAdapter) emit(event *zerolog.Event, format string, args []any) {
	event.Msgf(strings.TrimRight(format, "\n "), args...)
}

func (a *StoreAdapter) Debugf(format string, args ...any) {
	a.emit(a.logger.Debug(), format, args)
}

func (a *StoreAdapter) Infof(format string, args ...any) {
	a.emit(a.logger.Debug(), format, args)
}

func (a *StoreAdapter) Warningf(format string, args ...any) {
	a.emit(a.logger.Warn(), format, args)
}

func (a *StoreAdapter) Errorf(format string, args ...any) {
	a.emit(a.logger.Error(), format, args)
}
