package media

import (
	"slices"
	"strings"

	"github.com/arismemo/quotation/internal/config"
	"github.com/arismemo/quotation/internal/messages"
)

// Result is the outcome of a validation. Error holds the message to show
// when Valid is false.
type Result struct {
	Valid bool
	Error string
}

type Validator struct {
	maxSize           int64
	allowedTypes      []string
	allowedExtensions []string
}

func NewValidator(upload config.Upload) *Validator {
	return &Validator{
		maxSize:           upload.MaxSize.Bytes,
		allowedTypes:      upload.AllowedTypes,
		allowedExtensions: upload.AllowedExtensions,
	}
}

func DefaultValidator() *Validator {
	return &Validator{
		maxSize:           config.MaxUploadSize,
		allowedTypes:      config.AllowedImageTypes(),
		allowedExtensions: config.AllowedImageExtensions(),
	}
}

// Validate checks the size first, then the declared content type, then the
// extension.
func (v *Validator) Validate(file File) Result {
	if file.Size() > v.maxSize {
		return Result{Error: messages.Get(messages.FileTooLarge)}
	}

	if !slices.Contains(v.allowedTypes, file.ContentType) {
		return Result{Error: messages.Get(messages.InvalidFormat)}
	}

	if !slices.Contains(v.allowedExtensions, extension(file.Name)) {
		return Result{Error: messages.Get(messages.InvalidFormat)}
	}

	return Result{Valid: true}
}

// extension returns the last dot separated segment, lowercased and prefixed
// with a dot. A name without dots is its own extension.
func extension(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return "." + strings.ToLower(name)
}
