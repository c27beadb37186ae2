package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`image = "prog.av"`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(defaultCapacity), cfg.Capacity)
	require.Equal(t, "main", cfg.Entry)
	require.Equal(t, "prog.av", cfg.Image)
}

func TestLoadHostTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launch.toml")
	body := `
capacity = 4096
image = "prog.av"
entry = "start"

[[host_tables]]
name = "stdabi"
kind = "stdabi"

[[host_tables]]
name = "stdio"
kind = "stdio"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(4096), cfg.Capacity)
	require.Equal(t, "start", cfg.Entry)
	require.Len(t, cfg.HostTables, 2)
	require.Equal(t, "stdabi", cfg.HostTables[0].Kind)
	require.Equal(t, "stdio", cfg.HostTables[1].Kind)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
