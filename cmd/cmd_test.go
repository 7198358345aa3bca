package cmd

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLogLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	ctx := context.Background()

	t.Setenv("LOG_LEVEL", "warn")
	_, err := run(t, "templates")
	require.NoError(t, err)
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelWarn))

	_, err = run(t, "--log-level", "debug", "templates")
	require.NoError(t, err)
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))
}

func TestTemplatesCommand(t *testing.T) {
	out, err := run(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "Mosaic")

	out, err = run(t, "templates", "--output", "yaml")
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &list))
	assert.Len(t, list, 4)

	_, err = run(t, "templates", "--output", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestArrangeCommandWithRandomOracle(t *testing.T) {
	t.Setenv("ARRANGE_PROVIDER", "random")
	dir := t.TempDir()

	var paths []string
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, i+1, 1))))
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
		paths = append(paths, path)
	}

	out, err := run(t, append([]string{"arrange"}, paths...)...)
	require.NoError(t, err)

	var snap struct {
		TemplateKey string `yaml:"template_key"`
		Assignments []struct {
			SlotID int `yaml:"slot_id"`
			Image  *struct {
				Name string `yaml:"name"`
			} `yaml:"image"`
		} `yaml:"assignments"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	assert.NotEmpty(t, snap.TemplateKey)
	require.NotEmpty(t, snap.Assignments)

	names := map[string]bool{}
	for _, a := range snap.Assignments {
		// sources are cycled, so every slot is filled
		require.NotNil(t, a.Image, "slot %d", a.SlotID)
		names[a.Image.Name] = true
	}
	assert.Len(t, names, 3)
}

func TestArrangeCommandRequiresImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	t.Setenv("ARRANGE_PROVIDER", "random")
	_, err := run(t, "arrange", path)
	assert.ErrorContains(t, err, "Please upload some images first.")
}
