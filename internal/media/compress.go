package media

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registers the webp decoder

	"github.com/arismemo/quotation/internal/messages"
	"github.com/arismemo/quotation/internal/metrics"
)

var ErrInvalidImage = errors.New(messages.Get(messages.InvalidImage))

// Options bounds the output. Quality is in [0, 1] and only applies to JPEG.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   float64
}

// Compressor re-encodes images and remembers its outputs by content digest.
type Compressor struct {
	memo    *ristretto.Cache[string, File]
	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

func NewCompressor(memoSize int64, m *metrics.Metrics, logger *zerolog.Logger) (*Compressor, error) {
	memo, err := ristretto.NewCache(&ristretto.Config[string, File]{
		NumCounters: 10_000,
		MaxCost:     memoSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create the compression memo: %w", err)
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Compressor{memo, m, logger}, nil
}

func (c *Compressor) Close() {
	c.memo.Close()
}

func memoKey(file File, opts Options) string {
	hasher := blake3.New()
	_, _ = hasher.Write(file.Data)
	return fmt.Sprintf(
		"%s:%s:%dx%d@%g",
		hex.EncodeToString(hasher.Sum(nil)),
		file.ContentType,
		opts.MaxWidth,
		opts.MaxHeight,
		opts.Quality,
	)
}

// Compress scales file down to fit opts and re-encodes it. The result is never
// larger than the input: when re-encoding does not help, file is returned
// as is.
func (c *Compressor) Compress(file File, opts Options) (File, error) {
	key := memoKey(file, opts)
	if cached, ok := c.memo.Get(key); ok {
		c.metrics.CompressionMemo.WithLabelValues("hit").Inc()
		return cached, nil
	}
	c.metrics.CompressionMemo.WithLabelValues("miss").Inc()

	compressed, err := compress(file, opts)
	if err != nil {
		return File{}, err
	}

	if saved := file.Size() - compressed.Size(); saved > 0 {
		c.metrics.CompressionSaved.Add(float64(saved))
	}
	c.logger.Debug().
		Str("file", file.Name).
		Int64("before", file.Size()).
		Int64("after", compressed.Size()).
		Msg("Compressed image")

	c.memo.Set(key, compressed, compressed.Size()+1)
	c.memo.Wait()
	return compressed, nil
}

// Fit shrinks width and height so that the longer side fits its bound,
// keeping the aspect ratio. Images already within bounds are untouched, and a
// bound <= 0 does not limit its side.
func Fit(width, height, maxWidth, maxHeight int) (int, int) {
	if width > height {
		if maxWidth > 0 && width > maxWidth {
			height = int(float64(height) * float64(maxWidth) / float64(width))
			width = maxWidth
		}
	} else if maxHeight > 0 && height > maxHeight {
		width = int(float64(width) * float64(maxHeight) / float64(height))
		height = maxHeight
	}
	return max(width, 1), max(height, 1)
}

func compress(file File, opts Options) (File, error) {
	if isAnimatedGIF(file.Data) {
		return file, nil
	}

	img, format, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	width, height := Fit(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight)
	if width != bounds.Dx() || height != bounds.Dy() {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
	}

	out := file
	var buf bytes.Buffer

	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(opts.Quality)})
	case "png":
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		err = encoder.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, &gif.Options{NumColors: 256})
	case "webp":
		// No webp encoder, fall back to JPEG on a white background
		flat := image.NewRGBA(img.Bounds())
		draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)
		err = jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality(opts.Quality)})
		out.Name = strings.TrimSuffix(file.Name, filepath.Ext(file.Name)) + ".jpg"
		out.ContentType = "image/jpeg"
	default:
		return file, nil
	}
	if err != nil {
		return File{}, fmt.Errorf("unable to encode %s image: %w", format, err)
	}

	if buf.Len() >= len(file.Data) {
		return file, nil
	}

	out.Data = buf.Bytes()
	return out, nil
}

func jpegQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	return min(max(q, 1), 100)
}

func isAnimatedGIF(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("GIF8")) {
		return false
	}
	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	return err == nil && len(decoded.Image) > 1
}
