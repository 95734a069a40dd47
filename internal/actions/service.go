// Package actions implements the user facing operations on top of the
// backend API. Each action drives the loading indicator and reports its
// outcome through toasts.
package actions

import (
	"context"
	"errors"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/arismemo/quotation/internal/config"
	"github.com/arismemo/quotation/internal/httpclient"
	"github.com/arismemo/quotation/internal/loading"
	"github.com/arismemo/quotation/internal/media"
	"github.com/arismemo/quotation/internal/messages"
	"github.com/arismemo/quotation/internal/toast"
)

const (
	defaultFavoriteName = "未命名收藏"
	defaultMethod       = "opencv"
	slowMethod          = "rembg"
	progressInterval    = 200 * time.Millisecond
)

// Dependencies wires a Service. Compressor may be nil to upload files as
// picked, Confirm may be nil to accept every confirmation.
type Dependencies struct {
	Client              *httpclient.Client
	Loading             *loading.Manager
	Toasts              *toast.Manager
	Validator           *media.Validator
	Compressor          *media.Compressor
	Compression         media.Options
	UploadField         string
	AnalysisTimeout     time.Duration
	AnalysisFastTimeout time.Duration
	Confirm             func(prompt string) bool
	Logger              *zerolog.Logger
}

type Service struct {
	client              *httpclient.Client
	loading             *loading.Manager
	toasts              *toast.Manager
	validator           *media.Validator
	compressor          *media.Compressor
	compression         media.Options
	uploadField         string
	analysisTimeout     time.Duration
	analysisFastTimeout time.Duration
	confirm             func(prompt string) bool
	logger              *zerolog.Logger
}

func New(deps Dependencies) *Service {
	s := &Service{
		client:              deps.Client,
		loading:             deps.Loading,
		toasts:              deps.Toasts,
		validator:           deps.Validator,
		compressor:          deps.Compressor,
		compression:         deps.Compression,
		uploadField:         deps.UploadField,
		analysisTimeout:     deps.AnalysisTimeout,
		analysisFastTimeout: deps.AnalysisFastTimeout,
		confirm:             deps.Confirm,
		logger:              deps.Logger,
	}

	if s.loading == nil {
		s.loading = loading.NewManager(nil)
	}
	if s.toasts == nil {
		s.toasts = toast.NewManager(nil, 0, nil)
	}
	if s.validator == nil {
		s.validator = media.DefaultValidator()
	}
	if s.compression.MaxWidth <= 0 {
		s.compression.MaxWidth = config.CompressMaxWidth
	}
	if s.compression.MaxHeight <= 0 {
		s.compression.MaxHeight = config.CompressMaxHeight
	}
	if s.compression.Quality <= 0 {
		s.compression.Quality = config.CompressQuality
	}
	if s.uploadField == "" {
		s.uploadField = config.UploadField
	}
	if s.analysisTimeout <= 0 {
		s.analysisTimeout = config.AnalysisTimeout
	}
	if s.analysisFastTimeout <= 0 {
		s.analysisFastTimeout = config.AnalysisFastTimeout
	}
	if s.confirm == nil {
		s.confirm = func(string) bool { return true }
	}
	if s.logger == nil {
		nop := zerolog.Nop()
		s.logger = &nop
	}

	return s
}

// begin tags the context with a logger carrying the action name and a fresh
// id, which outgoing requests pick up.
func (s *Service) begin(ctx context.Context, action string) (context.Context, *zerolog.Logger) {
	logger := s.logger.With().Str("action", action).Str("action_id", xid.New().String()).Logger()
	return logger.WithContext(ctx), &logger
}

// userMessage picks what to show for err, fallback when nothing better is
// known.
func userMessage(err error, fallback string) string {
	var httpErr *httpclient.Error
	switch {
	case errors.As(err, &httpErr) && httpErr.Message != "":
		return httpErr.Message
	case errors.Is(err, media.ErrInvalidImage):
		return messages.Get(messages.InvalidImage)
	default:
		return fallback
	}
}

// fail hides the indicator if it was shown for this action, then reports err.
func (s *Service) fail(logger *zerolog.Logger, err error, fallback string, shown bool) {
	if shown {
		s.loading.Hide()
	}
	s.toasts.Error(userMessage(err, fallback))
	logger.Warn().Err(err).Msg("Action failed")
}
