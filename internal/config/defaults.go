package config

import "time"

// Compile-time defaults. The configuration file can override most of them,
// the messages table always refers to these values.
const (
	MaxUploadSize       = 10 * 1024 * 1024
	CompressMaxWidth    = 1920
	CompressMaxHeight   = 1920
	CompressQuality     = 0.8
	CompressMemoSize    = 64 * 1024 * 1024
	DebounceDelay       = 300 * time.Millisecond
	RequestTimeout      = 60 * time.Second
	AnalysisTimeout     = 300 * time.Second
	AnalysisFastTimeout = 120 * time.Second
	CacheFreshness      = 60 * time.Second
	ToastDuration       = 3 * time.Second
	UploadField         = "file"
)

func AllowedImageTypes() []string {
	return []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}
}

func AllowedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}
