package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/arismemo/quotation/internal/actions"
	"github.com/arismemo/quotation/internal/config"
	"github.com/arismemo/quotation/internal/httpclient"
	"github.com/arismemo/quotation/internal/loading"
	"github.com/arismemo/quotation/internal/logging"
	"github.com/arismemo/quotation/internal/media"
	"github.com/arismemo/quotation/internal/metrics"
	"github.com/arismemo/quotation/internal/toast"
	"github.com/arismemo/quotation/internal/transport"
)

const defaultConfigPath = "./quotation.yaml"

// errReported is returned by commands whose failure was already shown to the
// user.
var errReported = errors.New("action failed")

// loadConfig reads the file pointed at by QUOTATION_CONFIG_PATH, or the
// explicit path, or ./quotation.yaml. Only a missing default file falls back
// to the built-in configuration.
func loadConfig(
	explicitPath string,
	lookupEnv func(string) (string, bool),
) (conf *config.Config, configNotExist bool, err error) {
	configPath, configPathSet := lookupEnv("QUOTATION_CONFIG_PATH")
	if explicitPath != "" {
		configPath, configPathSet = explicitPath, true
	}
	if !configPathSet {
		configPath = defaultConfigPath
	}

	conf, err = config.Parse(configPath, lookupEnv)
	if err != nil {
		if configPathSet || !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		return config.Default(lookupEnv), true, nil
	}
	return conf, false, nil
}

type app struct {
	conf       *config.Config
	logger     *zerolog.Logger
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	cache      *httpclient.ResponseCache
	client     *httpclient.Client
	loading    *loading.Manager
	toasts     *toast.Manager
	compressor *media.Compressor
	confirm    func(prompt string) bool
	stdout     io.Writer
}

func newApp(
	conf *config.Config,
	configNotExist bool,
	stdin io.Reader,
	stdout, stderr io.Writer,
	assumeYes *bool,
) (*app, error) {
	logLevel, err := zerolog.ParseLevel(conf.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := logging.CreateLogger(logLevel, conf.Log.Format, stderr)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize logger: %w", err)
	}

	if configNotExist {
		logger.Debug().
			Msg("quotation.yaml not found and QUOTATION_CONFIG_PATH not set: Using default configuration")
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	cacheLogger := logger.With().Str("component", "cache").Logger()
	cache, err := httpclient.NewResponseCache(conf.Cache.Freshness.Duration, &cacheLogger)
	if err != nil {
		return nil, err
	}

	var compressor *media.Compressor
	if conf.Compression.Enabled {
		mediaLogger := logger.With().Str("component", "media").Logger()
		compressor, err = media.NewCompressor(conf.Compression.MemoSize.Bytes, m, &mediaLogger)
		if err != nil {
			return nil, errors.Join(err, cache.Close())
		}
	}

	httpClient := &http.Client{
		Transport: transport.New(
			&http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          20,
				MaxConnsPerHost:       20,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
			conf.Session,
			&logger,
		),
	}

	reader := bufio.NewReader(stdin)
	confirm := func(prompt string) bool {
		if *assumeYes {
			return true
		}
		fmt.Fprintf(stderr, "%s [y/N] ", prompt) //nolint:errcheck
		answer, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}

	return &app{
		conf:     conf,
		logger:   &logger,
		registry: registry,
		metrics:  m,
		cache:    cache,
		client: httpclient.New(
			httpClient,
			conf.BaseURL.URL,
			cache,
			conf.Timeouts.Request.Duration,
			m,
			&logger,
		),
		loading:    loading.NewManager(loading.NewTerminal(stderr)),
		toasts:     toast.NewManager(toast.NewTerminal(stderr), conf.UI.ToastDuration.Duration, m),
		compressor: compressor,
		confirm:    confirm,
		stdout:     stdout,
	}, nil
}

func (a *app) service(compress bool) *actions.Service {
	deps := actions.Dependencies{
		Client:    a.client,
		Loading:   a.loading,
		Toasts:    a.toasts,
		Validator: media.NewValidator(a.conf.Upload),
		Compression: media.Options{
			MaxWidth:  a.conf.Compression.MaxWidth,
			MaxHeight: a.conf.Compression.MaxHeight,
			Quality:   a.conf.Compression.Quality,
		},
		UploadField:         a.conf.Upload.Field,
		AnalysisTimeout:     a.conf.Timeouts.Analysis.Duration,
		AnalysisFastTimeout: a.conf.Timeouts.AnalysisFast.Duration,
		Confirm:             a.confirm,
		Logger:              a.logger,
	}
	if compress {
		deps.Compressor = a.compressor
	}
	return actions.New(deps)
}

func (a *app) Close() error {
	a.loading.Reset()
	a.toasts.Close()
	if a.compressor != nil {
		a.compressor.Close()
	}

	err := a.cache.Close()
	if a.conf.MetricsFile != "" {
		if mErr := metrics.WriteTextfile(a.conf.MetricsFile, a.registry); mErr != nil {
			err = errors.Join(err, fmt.Errorf("unable to write metrics: %w", mErr))
		} else {
			a.logger.Debug().Str("path", a.conf.MetricsFile).Msg("Wrote metrics")
		}
	}
	return err
}
