package transport

import (
	"net/http"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

const (
	CorrelationHeader = "X-Quotation-Correlation-ID"
	SessionCookie     = "session"
)

type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func loggerFor(req *http.Request, fallback *zerolog.Logger) *zerolog.Logger {
	logger := zerolog.Ctx(req.Context())
	if logger.GetLevel() == zerolog.Disabled {
		return fallback
	}
	return logger
}

func newCorrelationTransport(next http.RoundTripper) http.RoundTripper {
	return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(CorrelationHeader) != "" {
			return next.RoundTrip(req)
		}

		req = req.Clone(req.Context())
		req.Header.Set(CorrelationHeader, xid.New().String())
		return next.RoundTrip(req)
	})
}

func newSessionTransport(next http.RoundTripper, session string) http.RoundTripper {
	if session == "" {
		return next
	}

	return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session})
		return next.RoundTrip(req)
	})
}

func newLoggingTransport(next http.RoundTripper, logger *zerolog.Logger) http.RoundTripper {
	return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(req)
		duration := time.Since(start)

		log := loggerFor(req, logger)
		if err != nil {
			log.Warn().
				Err(err).
				Str("method", req.Method).
				Str("url", req.URL.Redacted()).
				Str("correlation", req.Header.Get(CorrelationHeader)).
				Dur("duration", duration).
				Msg("Request failed")
			return resp, err
		}

		level := zerolog.DebugLevel
		if resp.StatusCode >= http.StatusInternalServerError {
			level = zerolog.WarnLevel
		}

		l := log.WithLevel(level) //nolint:zerologlint
		l.
			Str("method", req.Method).
			Str("url", req.URL.Redacted()).
			Str("correlation", req.Header.Get(CorrelationHeader)).
			Int("status", resp.StatusCode).
			Int64("size", resp.ContentLength).
			Dur("duration", duration).
			Msg("Processed request")
		return resp, nil
	})
}

func newTraceTransport(next http.RoundTripper, logger *zerolog.Logger) http.RoundTripper {
	if logger.GetLevel() > zerolog.TraceLevel {
		logger.Debug().Msg("Tracing disabled, not adding trace transport")
		return next
	}

	return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		headers := req.Header.Clone()
		headers.Del("Authorization")
		headers.Del("Cookie")

		log := loggerFor(req, logger)
		log.Trace().Any("headers", headers).Str("method", req.Method).Msg("Sending request")

		resp, err := next.RoundTrip(req)
		if err == nil {
			log.Trace().Any("headers", resp.Header).Msg("Received response")
		}
		return resp, err
	})
}

// New wraps base with correlation ids, session cookies, request logging and,
// at trace level, header dumps.
func New(base http.RoundTripper, session string, logger *zerolog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return newCorrelationTransport(
		newLoggingTransport(
			newTraceTransport(newSessionTransport(base, session), logger),
			logger,
		),
	)
}
