package media_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arismemo/quotation/internal/media"
	"github.com/arismemo/quotation/internal/metrics"
	"github.com/arismemo/quotation/internal/testutils"
)

func noise(width, height int) *image.RGBA {
	rng := rand.New(rand.NewPCG(uint64(width), uint64(height))) //nolint:gosec
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256)), 255})
		}
	}
	return img
}

func encodePNG(w io.Writer, img image.Image) error {
	encoder := png.Encoder{CompressionLevel: png.NoCompression}
	return encoder.Encode(w, img)
}

func jpegFile(t *testing.T, width, height int) media.File {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, noise(width, height), &jpeg.Options{Quality: 100}))
	return media.File{Name: "photo.jpg", ContentType: "image/jpeg", Data: buf.Bytes()}
}

func newCompressor(t *testing.T, m *metrics.Metrics) *media.Compressor {
	t.Helper()

	compressor, err := media.NewCompressor(1<<20, m, testutils.TestLogger(t))
	require.NoError(t, err)
	t.Cleanup(compressor.Close)
	return compressor
}

func TestFit(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name           string
		width          int
		height         int
		maxW           int
		maxH           int
		expectedWidth  int
		expectedHeight int
	}{
		{"within-bounds", 800, 600, 1920, 1920, 800, 600},
		{"landscape", 4000, 1000, 1920, 1920, 1920, 480},
		{"portrait", 1000, 3000, 1920, 1920, 640, 1920},
		{"square-uses-height", 2500, 2500, 1920, 1000, 1000, 1000},
		{"landscape-ignores-height-bound", 3000, 2000, 1920, 100, 1920, 1280},
		{"never-zero", 10000, 1, 100, 100, 100, 1},
		{"unbounded", 800, 600, 0, 0, 800, 600},
		{"unbounded-width", 4000, 1000, 0, 500, 4000, 1000},
		{"unbounded-height", 1000, 3000, -1, 0, 1000, 3000},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			width, height := media.Fit(tc.width, tc.height, tc.maxW, tc.maxH)
			assert.Equal(t, tc.expectedWidth, width)
			assert.Equal(t, tc.expectedHeight, height)
		})
	}
}

func TestCompressScalesDownAndShrinks(t *testing.T) {
	t.Parallel()

	compressor := newCompressor(t, nil)
	input := jpegFile(t, 400, 100)

	output, err := compressor.Compress(input, media.Options{MaxWidth: 192, MaxHeight: 192, Quality: 0.8})
	require.NoError(t, err)

	assert.Less(t, output.Size(), input.Size())
	assert.Equal(t, "photo.jpg", output.Name)
	assert.Equal(t, "image/jpeg", output.ContentType)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(output.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 192, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestCompressNeverGrowsTheFile(t *testing.T) {
	t.Parallel()

	var tiny bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	require.NoError(t, encoder.Encode(&tiny, image.NewGray(image.Rect(0, 0, 1, 1))))

	var lowQuality bytes.Buffer
	require.NoError(t, jpeg.Encode(&lowQuality, noise(16, 16), &jpeg.Options{Quality: 1}))

	compressor := newCompressor(t, nil)
	for _, input := range []media.File{
		{Name: "tiny.png", ContentType: "image/png", Data: tiny.Bytes()},
		{Name: "low.jpg", ContentType: "image/jpeg", Data: lowQuality.Bytes()},
	} {
		output, err := compressor.Compress(input, media.Options{MaxWidth: 1920, MaxHeight: 1920, Quality: 0.8})
		require.NoError(t, err)
		assert.LessOrEqual(t, output.Size(), input.Size(), input.Name)
	}

	output, err := compressor.Compress(
		media.File{Name: "tiny.png", ContentType: "image/png", Data: tiny.Bytes()},
		media.Options{MaxWidth: 1920, MaxHeight: 1920, Quality: 0.8},
	)
	require.NoError(t, err)
	assert.Equal(t, tiny.Bytes(), output.Data)
}

func TestCompressPNG(t *testing.T) {
	t.Parallel()

	flat := image.NewRGBA(image.Rect(0, 0, 300, 150))
	for y := range 150 {
		for x := range 300 {
			flat.Set(x, y, color.RGBA{uint8(x), uint8(y), 200, 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, encodePNG(&buf, flat))
	input := media.File{Name: "flat.png", ContentType: "image/png", Data: buf.Bytes()}

	output, err := newCompressor(t, nil).Compress(input, media.Options{MaxWidth: 100, MaxHeight: 100, Quality: 0.8})
	require.NoError(t, err)

	assert.Less(t, output.Size(), input.Size())
	cfg, format, err := image.DecodeConfig(bytes.NewReader(output.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestCompressRejectsCorruptImages(t *testing.T) {
	t.Parallel()

	_, err := newCompressor(t, nil).Compress(
		media.File{Name: "broken.png", ContentType: "image/png", Data: []byte("definitely not a png")},
		media.Options{MaxWidth: 1920, MaxHeight: 1920, Quality: 0.8},
	)
	require.ErrorIs(t, err, media.ErrInvalidImage)
}

func TestCompressKeepsAnimatedGIFs(t *testing.T) {
	t.Parallel()

	palette := color.Palette{color.Black, color.White}
	animation := &gif.GIF{
		Image: []*image.Paletted{
			image.NewPaletted(image.Rect(0, 0, 400, 400), palette),
			image.NewPaletted(image.Rect(0, 0, 400, 400), palette),
		},
		Delay: []int{10, 10},
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, animation))
	input := media.File{Name: "anim.gif", ContentType: "image/gif", Data: buf.Bytes()}

	output, err := newCompressor(t, nil).Compress(input, media.Options{MaxWidth: 100, MaxHeight: 100, Quality: 0.8})
	require.NoError(t, err)
	assert.Equal(t, input, output)
}

func TestCompressIsMemoized(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	compressor := newCompressor(t, m)
	input := jpegFile(t, 200, 50)
	opts := media.Options{MaxWidth: 100, MaxHeight: 100, Quality: 0.8}

	first, err := compressor.Compress(input, opts)
	require.NoError(t, err)
	second, err := compressor.Compress(input, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CompressionMemo.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CompressionMemo.WithLabelValues("hit")), 0)
	assert.InDelta(
		t,
		float64(input.Size()-first.Size()),
		testutil.ToFloat64(m.CompressionSaved),
		0,
	)
}

func TestCompressWithoutBoundsKeepsDimensions(t *testing.T) {
	t.Parallel()

	compressor, err := media.NewCompressor(1<<20, nil, nil)
	require.NoError(t, err)
	t.Cleanup(compressor.Close)

	output, err := compressor.Compress(jpegFile(t, 80, 60), media.Options{})
	require.NoError(t, err)

	config, _, err := image.DecodeConfig(bytes.NewReader(output.Data))
	require.NoError(t, err)
	assert.Equal(t, 80, config.Width)
	assert.Equal(t, 60, config.Height)
}
