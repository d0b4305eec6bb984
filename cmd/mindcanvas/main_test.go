package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindcanvas/internal/config"
)

type cli struct {
	dir  string
	args []string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	color.NoColor = true
	t.Setenv(config.EnvOpenAIKey, "")
	t.Setenv(config.EnvGeminiKey, "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mindcanvas.yaml")
	cfg := config.DefaultConfig()
	cfg.Log.Level = "error"
	cfg.Canvas.Width, cfg.Canvas.Height = 320, 240
	require.NoError(t, cfg.Save(cfgPath))

	return &cli{dir: dir, args: []string{"--config", cfgPath, "--db", filepath.Join(dir, "maps.db")}}
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(append([]string{}, args...), c.args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateSaveAndList(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "generate", "Chess", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Chess Overview")
	assert.Contains(t, out, "saved as")

	out, err = c.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Chess")
}

func TestImportExportRoundTrip(t *testing.T) {
	c := newCLI(t)

	src := filepath.Join(c.dir, "garden.md")
	require.NoError(t, os.WriteFile(src, []byte("# Garden\n- Vegetables\n  - Tomatoes\n- Flowers\n"), 0o644))

	out, err := c.run(t, "import", src)
	require.NoError(t, err)
	fields := strings.Fields(strings.TrimSpace(out))
	require.NotEmpty(t, fields)
	id := fields[len(fields)-1]

	out, err = c.run(t, "export", id, "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "topic: Garden")
	assert.Contains(t, out, "Tomatoes")

	out, err = c.run(t, "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "└── Flowers")
}

func TestImportReportsFailures(t *testing.T) {
	c := newCLI(t)

	bad := filepath.Join(c.dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))

	_, err := c.run(t, "import", bad)
	assert.Error(t, err)
}

func TestRenderFile(t *testing.T) {
	c := newCLI(t)

	src := filepath.Join(c.dir, "map.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"topic":"Travel","nodes":[{"text":"Packing","children":[{"text":"Clothes"}]}]}`), 0o644))
	dst := filepath.Join(c.dir, "map.png")

	_, err := c.run(t, "render", src, "-o", dst)
	require.NoError(t, err)

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestUnknownMap(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(t, "show", "missing")
	assert.Error(t, err)
}
