package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"largeimage/pkg/addressing"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestParseShape(t *testing.T) {
	s, err := parseShape("2000,2000,2,2,1000")
	require.NoError(t, err)
	assert.Equal(t, addressing.Shape{X: 2000, Y: 2000, Z: 2, T: 2, B: 1000}, s)

	s, err = parseShape("7, 5")
	require.NoError(t, err)
	assert.Equal(t, addressing.Shape2D(7, 5), s)

	for _, bad := range []string{"", "7", "1,2,3,4,5,6", "a,b", "0,4"} {
		_, err := parseShape(bad)
		assert.Error(t, err, bad)
	}
}

func TestInfoCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "none.yaml")
	out := execute(t, "info", "--config", cfgPath, "--budget", "1Mi",
		"--shape", "2000,2000,2,2,1000", "--kind", "byte")

	assert.Contains(t, out, "kind: byte")
	assert.Contains(t, out, "unit_capacity: 1048576")
	assert.Contains(t, out, "unit_count: 15259")
	assert.Contains(t, out, "unit_length: 827392")
}

func TestFillCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "none.yaml")
	out := execute(t, "fill", "--config", cfgPath, "--budget", "256",
		"--shape", "16,16,4", "--kind", "int", "--value", "0.5", "--workers", "3")

	assert.Contains(t, out, "count=1024")
	assert.Contains(t, out, "min=0.5")
}

func TestSlicesCommand(t *testing.T) {
	dir := t.TempDir()
	execute(t, "slices", "--config", filepath.Join(dir, "none.yaml"), "--budget", "64",
		"--shape", "8,8,4", "--axis", "z", "--format", "png", "--out", dir)

	for _, name := range []string{"slice_z_000.png", "slice_z_003.png"} {
		_, err := os.Stat(filepath.Join(dir, "z", name))
		assert.NoError(t, err, name)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "largeimage.yaml")

	out := execute(t, "config", "init", "--config", cfgPath)
	assert.Contains(t, out, cfgPath)
	require.FileExists(t, cfgPath)

	out = execute(t, "config", "show", "--config", cfgPath, "--log-level", "DEBUG")
	assert.Contains(t, out, "backend: memory")
	assert.Contains(t, out, "level: DEBUG")
}
