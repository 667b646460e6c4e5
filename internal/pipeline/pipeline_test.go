package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"lowlight-enhancer/internal/algorithms"
	"lowlight-enhancer/internal/logger"
	"lowlight-enhancer/internal/raster"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, fill func(x, y int) color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill(x, y))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func darkPixel(x, y int) color.NRGBA {
	return color.NRGBA{R: uint8(x % 40), G: uint8(y % 30), B: 10, A: 255}
}

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	mgr, err := algorithms.NewManager()
	require.NoError(t, err)
	coord := NewCoordinator(mgr, DefaultJPEGQuality, logger.NewNop())
	t.Cleanup(coord.Shutdown)
	return coord
}

func TestLoaderLoadFromBytes(t *testing.T) {
	data := encodePNG(t, 7, 5, darkPixel)

	got, err := NewLoader(logger.NewNop()).LoadFromBytes(data, "")
	require.NoError(t, err)

	assert.Equal(t, "png", got.Format)
	assert.Equal(t, 7, got.Width)
	assert.Equal(t, 5, got.Height)
	assert.Equal(t, raster.SpaceRGB, got.Raster.Space)

	r, g, b := got.Raster.At(6, 4)
	assert.Equal(t, [3]uint8{6, 4, 10}, [3]uint8{r, g, b})
}

func TestLoaderRejectsGarbage(t *testing.T) {
	loader := NewLoader(logger.NewNop())

	_, err := loader.LoadFromBytes([]byte("not an image"), ".png")
	assert.ErrorIs(t, err, raster.ErrInvalidImage)

	_, err = loader.LoadFromBytes(nil, ".png")
	assert.ErrorIs(t, err, raster.ErrInvalidImage)
}

func TestLoaderLoadFromReaderNamesImage(t *testing.T) {
	data := encodePNG(t, 3, 3, darkPixel)

	got, err := NewLoader(logger.NewNop()).LoadFromReader(bytes.NewReader(data), filepath.Join("shots", "night.street.PNG"))
	require.NoError(t, err)
	assert.Equal(t, "night.street", got.Name)
	assert.Equal(t, "png", got.Format)
}

func TestLoaderLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dark.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 4, 2, darkPixel), 0o644))

	got, err := NewLoader(logger.NewNop()).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Name)

	_, err = NewLoader(logger.NewNop()).LoadFromPath(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestDetermineActualFormat(t *testing.T) {
	tests := []struct {
		ext, decoded, want string
	}{
		{".jpg", "jpeg", "jpeg"},
		{".png", "jpeg", "png"},
		{".tif", "tiff", "tiff"},
		{".webp", "webp", "webp"},
		{"", "gif", "gif"},
		{"", "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.ext+"/"+tt.decoded, func(t *testing.T) {
			assert.Equal(t, tt.want, determineActualFormat(tt.ext, tt.decoded))
		})
	}
}

func TestSaverWritesJPEGAndPNG(t *testing.T) {
	loaded, err := NewLoader(logger.NewNop()).LoadFromBytes(encodePNG(t, 9, 6, darkPixel), ".png")
	require.NoError(t, err)

	saver := NewSaver(0, logger.NewNop())
	assert.Equal(t, DefaultJPEGQuality, saver.jpegQuality)

	for _, format := range []string{"jpeg", "png"} {
		var buf bytes.Buffer
		require.NoError(t, saver.SaveToWriter(&buf, loaded, format))

		cfg, decoded, err := image.DecodeConfig(&buf)
		require.NoError(t, err)
		assert.Equal(t, format, decoded)
		assert.Equal(t, 9, cfg.Width)
		assert.Equal(t, 6, cfg.Height)
	}
}

func TestSaverFallsBackToPNG(t *testing.T) {
	loaded, err := NewLoader(logger.NewNop()).LoadFromBytes(encodePNG(t, 2, 2, darkPixel), ".png")
	require.NoError(t, err)

	var logs bytes.Buffer
	saver := NewSaver(DefaultJPEGQuality, logger.NewZerolog(&logs, zerolog.WarnLevel))

	var buf bytes.Buffer
	require.NoError(t, saver.SaveToWriter(&buf, loaded, "bmp"))

	_, decoded, err := image.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", decoded)
	assert.Contains(t, logs.String(), "format not supported")
}

func TestSaverSaveToPath(t *testing.T) {
	loaded, err := NewLoader(logger.NewNop()).LoadFromBytes(encodePNG(t, 5, 5, darkPixel), ".png")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, NewSaver(80, logger.NewNop()).SaveToPath(path, loaded))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	_, decoded, err := image.DecodeConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", decoded)

	assert.Error(t, NewSaver(80, logger.NewNop()).SaveToWriter(&bytes.Buffer{}, nil, "png"))
}

func TestCoordinatorEnhanceBlackImage(t *testing.T) {
	coord := newTestCoordinator(t)

	black := encodePNG(t, 100, 50, func(int, int) color.NRGBA { return color.NRGBA{A: 255} })
	_, err := coord.LoadImage(bytes.NewReader(black), "black.png")
	require.NoError(t, err)

	result, err := coord.Enhance("native")
	require.NoError(t, err)
	assert.Equal(t, "native", result.Algorithm)

	assert.Equal(t, 100, result.Enhanced.Width)
	assert.Equal(t, 50, result.Enhanced.Height)
	assert.Equal(t, 200, result.Comparison.Width)
	assert.Equal(t, 110, result.Comparison.Height)
	assert.Equal(t, "black", result.Comparison.Name)

	var brightest uint8
	for _, v := range result.Enhanced.Raster.Pix {
		brightest = max(brightest, v)
	}
	assert.Greater(t, brightest, uint8(0))

	var jpegBuf, pngBuf bytes.Buffer
	require.NoError(t, coord.SaveEnhanced(&jpegBuf))
	require.NoError(t, coord.SaveComparison(&pngBuf))

	_, decoded, err := image.DecodeConfig(&jpegBuf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", decoded)

	cfg, decoded, err := image.DecodeConfig(&pngBuf)
	require.NoError(t, err)
	assert.Equal(t, "png", decoded)
	assert.Equal(t, 200, cfg.Width)
}

func TestCoordinatorErrors(t *testing.T) {
	coord := newTestCoordinator(t)

	_, err := coord.Enhance("native")
	assert.ErrorContains(t, err, "no image loaded")
	assert.Error(t, coord.SaveEnhanced(&bytes.Buffer{}))
	assert.Error(t, coord.SaveComparison(&bytes.Buffer{}))

	_, err = coord.LoadImage(bytes.NewReader([]byte("junk")), "junk.png")
	assert.ErrorIs(t, err, raster.ErrInvalidImage)
	assert.Nil(t, coord.GetOriginalImage())

	_, err = coord.LoadImage(bytes.NewReader(encodePNG(t, 8, 8, darkPixel)), "dark.png")
	require.NoError(t, err)

	_, err = coord.Enhance("missing")
	assert.ErrorContains(t, err, "unknown algorithm")
}

func TestCoordinatorCancelledKeepsPreviousResult(t *testing.T) {
	coord := newTestCoordinator(t)

	_, err := coord.LoadImage(bytes.NewReader(encodePNG(t, 16, 12, darkPixel)), "dark.png")
	require.NoError(t, err)

	first, err := coord.Enhance("native")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = coord.EnhanceWithContext(ctx, "native")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Same(t, first, coord.GetResult())
}

func TestCoordinatorLoadClearsResult(t *testing.T) {
	coord := newTestCoordinator(t)

	_, err := coord.LoadImage(bytes.NewReader(encodePNG(t, 6, 6, darkPixel)), "a.png")
	require.NoError(t, err)
	_, err = coord.Enhance("native")
	require.NoError(t, err)
	require.NotNil(t, coord.GetResult())

	_, err = coord.LoadImage(bytes.NewReader(encodePNG(t, 6, 6, darkPixel)), "b.png")
	require.NoError(t, err)
	assert.Nil(t, coord.GetResult())
	assert.Equal(t, "b", coord.GetOriginalImage().Name)
}

func TestCoordinatorAvailableAlgorithms(t *testing.T) {
	assert.Equal(t, []string{"native"}, newTestCoordinator(t).AvailableAlgorithms())
}

// composingBackend passes images through and draws its own comparison.
type composingBackend struct {
	composed int
}

func (b *composingBackend) GetName() string { return "composing" }

func (b *composingBackend) Process(_ context.Context, input *raster.Image) (*raster.Image, error) {
	return input.Clone(), nil
}

func (b *composingBackend) Compose(left, right *raster.Image, _, _ string) (*raster.Image, error) {
	b.composed++
	return raster.New(7, 3, raster.SpaceRGB)
}

func TestCompareUsesBackendCompositor(t *testing.T) {
	mgr, err := algorithms.NewManager()
	require.NoError(t, err)
	backend := &composingBackend{}
	mgr.Register(backend)

	coord := NewCoordinator(mgr, DefaultJPEGQuality, logger.NewNop())
	t.Cleanup(coord.Shutdown)

	_, err = coord.LoadImage(bytes.NewReader(encodePNG(t, 10, 5, darkPixel)), "dark.png")
	require.NoError(t, err)

	result, err := coord.Enhance("composing")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.composed)
	assert.Equal(t, 7, result.Comparison.Width)
	assert.Equal(t, 3, result.Comparison.Height)

	result, err = coord.Enhance("native")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.composed)
	assert.Equal(t, 20, result.Comparison.Width)
	assert.Equal(t, 65, result.Comparison.Height)
}

func TestCoordinatorShutdownCancelsContext(t *testing.T) {
	mgr, err := algorithms.NewManager()
	require.NoError(t, err)
	coord := NewCoordinator(mgr, DefaultJPEGQuality, logger.NewNop())

	_, err = coord.LoadImage(bytes.NewReader(encodePNG(t, 8, 8, darkPixel)), "dark.png")
	require.NoError(t, err)

	ctx := coord.Context()
	require.NoError(t, ctx.Err())

	coord.Shutdown()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	_, err = coord.EnhanceWithContext(ctx, "native")
	assert.Error(t, err)
}
