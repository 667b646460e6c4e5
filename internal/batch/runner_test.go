package batch

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"lowlight-enhancer/internal/algorithms"
	"lowlight-enhancer/internal/config"
	"lowlight-enhancer/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDarkPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x % 25), G: uint8(y % 25), B: 5, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
	return path
}

func newRunner(t *testing.T, cfg config.Config) *Runner {
	t.Helper()
	mgr, err := algorithms.NewManager()
	require.NoError(t, err)
	runner, err := NewRunner(cfg, mgr, logger.NewNop())
	require.NoError(t, err)
	return runner
}

func decodeConfig(t *testing.T, path string) (image.Config, string) {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	cfg, format, err := image.DecodeConfig(file)
	require.NoError(t, err)
	return cfg, format
}

func TestRunWritesEnhancedAndComparison(t *testing.T) {
	in := t.TempDir()
	inputs := []string{
		writeDarkPNG(t, in, "alley.png", 40, 20),
		writeDarkPNG(t, in, "porch.png", 30, 30),
		writeDarkPNG(t, in, "cellar.png", 12, 18),
	}

	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Compare = true
	cfg.Workers = 2

	results, err := newRunner(t, cfg).Run(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, result := range results {
		assert.Equal(t, inputs[i], result.Input)

		enhancedCfg, format := decodeConfig(t, result.EnhancedPath)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, result.Width, enhancedCfg.Width)
		assert.Equal(t, result.Height, enhancedCfg.Height)

		comparisonCfg, format := decodeConfig(t, result.ComparisonPath)
		assert.Equal(t, "png", format)
		assert.Equal(t, 2*result.Width, comparisonCfg.Width)
		assert.Equal(t, result.Height+60, comparisonCfg.Height)
	}

	assert.Equal(t, filepath.Join(cfg.OutputDir, "alley_enhanced.jpg"), results[0].EnhancedPath)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "porch_comparison.png"), results[1].ComparisonPath)
}

func TestRunWithoutCompare(t *testing.T) {
	in := t.TempDir()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	results, err := newRunner(t, cfg).Run(context.Background(), []string{writeDarkPNG(t, in, "one.png", 8, 8)})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].ComparisonPath)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "one_comparison.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunFailures(t *testing.T) {
	in := t.TempDir()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	runner := newRunner(t, cfg)

	_, err := runner.Run(context.Background(), nil)
	assert.ErrorContains(t, err, "no input files")

	a := writeDarkPNG(t, in, "same.png", 4, 4)
	sub := filepath.Join(in, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	b := writeDarkPNG(t, sub, "same.png", 4, 4)
	_, err = runner.Run(context.Background(), []string{a, b})
	assert.ErrorContains(t, err, "share an output name")

	missing := filepath.Join(in, "missing.png")
	_, err = runner.Run(context.Background(), []string{a, missing})
	assert.ErrorContains(t, err, "missing.png")
}

func TestRunCancelled(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t, cfg).Run(ctx, []string{writeDarkPNG(t, t.TempDir(), "x.png", 6, 6)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerValidates(t *testing.T) {
	mgr, err := algorithms.NewManager()
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Backend = "quantum"
	_, err = NewRunner(cfg, mgr, logger.NewNop())
	assert.ErrorContains(t, err, "unknown algorithm")

	cfg = config.Default()
	cfg.Workers = 0
	_, err = NewRunner(cfg, mgr, logger.NewNop())
	assert.ErrorContains(t, err, "workers")
}
