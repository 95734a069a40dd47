package units

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/arismemo/quotation/internal/prettify"
)

var (
	bytesFormat          = regexp.MustCompile(`^(\d+(\.\d+)?)\s*((([KMGT])(i?))?B)?$`)
	units                = []byte("BKMGT")
	ErrInvalidByteFormat = errors.New("not a valid bytes format. Must match " + bytesFormat.String())
)

type Bytes struct {
	Bytes int64
}

func (b *Bytes) UnmarshalYAML(value *yaml.Node) error {
	return b.UnmarshalText([]byte(value.Value))
}

func (b Bytes) MarshalYAML() (any, error) {
	return b.String(), nil
}

func (b *Bytes) UnmarshalText(text []byte) error {
	val, err := DecodeBytes(string(text))
	if err != nil {
		return err
	}

	*b = val
	return nil
}

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func DecodeBytes(value string) (Bytes, error) {
	groups := bytesFormat.FindStringSubmatch(value)
	if groups == nil {
		return Bytes{}, ErrInvalidByteFormat
	}

	// No unit
	if groups[3] == "" {
		val, err := strconv.ParseInt(groups[1], 10, 64)
		if err != nil {
			return Bytes{}, fmt.Errorf("%w: %w", ErrInvalidByteFormat, err)
		}

		return Bytes{val}, nil
	}

	base := int64(1024)
	if groups[6] == "" {
		base = 1000
	}

	exponent := bytes.IndexByte(units, groups[3][0])

	mul := int64(1)
	for range exponent {
		mul *= base
	}

	val, err := strconv.ParseInt(groups[1], 10, 64)
	if err == nil {
		return Bytes{val * mul}, nil
	}
	valf, err := strconv.ParseFloat(groups[1], 64)
	if err == nil {
		return Bytes{int64(valf * float64(mul))}, nil
	}

	return Bytes{}, fmt.Errorf("%w: %w", ErrInvalidByteFormat, err)
}

func (b Bytes) String() string {
	if b.Bytes == 0 {
		return "0B"
	}

	for exponent := len(units) - 1; exponent > 0; exponent-- {
		mul := int64(1) << (10 * exponent)
		if b.Bytes%mul == 0 {
			return fmt.Sprintf("%d%ciB", b.Bytes/mul, units[exponent])
		}
	}
	return fmt.Sprintf("%dB", b.Bytes)
}

// Pretty renders the value the way it is shown to users, e.g. "10 MB".
func (b Bytes) Pretty() string {
	return prettify.FileSize(b.Bytes)
}
