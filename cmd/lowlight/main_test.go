package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 3, A: 255})
		}
	}
	path := filepath.Join(dir, "dusk.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lowlight "+version+"\n", out)
}

func TestEnhanceCommand(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	input := writeInput(t, t.TempDir())
	outDir := t.TempDir()

	out, err := runCLI(t, "enhance", "--out", outDir, "--compare", "--workers", "1", input)
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Join(outDir, "dusk_enhanced.jpg"))
	assert.FileExists(t, filepath.Join(outDir, "dusk_enhanced.jpg"))
	assert.FileExists(t, filepath.Join(outDir, "dusk_comparison.png"))
}

func TestEnhanceCommandRejectsUnknownBackend(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	input := writeInput(t, t.TempDir())

	_, err := runCLI(t, "enhance", "--backend", "quantum", "--out", t.TempDir(), input)
	assert.ErrorContains(t, err, "unknown algorithm")

	_, err = runCLI(t, "enhance")
	assert.Error(t, err)
}

func TestNewAlgorithmManagerRegistersBackends(t *testing.T) {
	manager, err := newAlgorithmManager()
	require.NoError(t, err)
	assert.Equal(t, []string{"native", "opencv"}, manager.GetAvailableAlgorithms())
}
