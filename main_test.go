package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/heroguess/internal/daily"
	"github.com/robalobadob/heroguess/internal/dataset"
	"github.com/robalobadob/heroguess/internal/game"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&Config{})
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		return Config{port: 5175, tolerance: 3, reapInterval: time.Minute}
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero tolerance", mutate: func(c *Config) { c.tolerance = 0 }},
		{name: "negative tolerance", mutate: func(c *Config) { c.tolerance = -1 }, wantErr: true},
		{name: "port too big", mutate: func(c *Config) { c.port = 70000 }, wantErr: true},
		{name: "dataset and db", mutate: func(c *Config) { c.dataset, c.db = "a.json", "a.db" }, wantErr: true},
		{name: "no reap interval", mutate: func(c *Config) { c.reapInterval = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.validate())
			} else {
				assert.NoError(t, c.validate())
			}
		})
	}
}

func TestConfig_EnvAndFlags(t *testing.T) {
	t.Setenv("HEROGUESS_PORT", "9001")
	t.Setenv("HEROGUESS_TOLERANCE", "1")

	cfg := &Config{}
	cmd := newRootCmd(cfg)
	assert.Equal(t, 9001, cfg.port)
	assert.Equal(t, 1, cfg.tolerance)
	assert.Equal(t, "info", cfg.logLevel)

	require.NoError(t, cmd.ParseFlags([]string{"--port", "9002"}))
	assert.Equal(t, 9002, cfg.port, "flags beat environment")
}

func TestToday_EmbeddedDataset(t *testing.T) {
	ds, err := dataset.LoadDefault()
	require.NoError(t, err)
	when := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	idx, err := daily.Index(when, len(ds))
	require.NoError(t, err)

	out, err := run(t, "today", "--date", "2024-01-02")
	require.NoError(t, err)
	assert.Contains(t, out, "date: 2024-01-02\n")
	assert.NotContains(t, out, "hero:")

	out, err = run(t, "today", "--date", "2024-01-02", "--reveal")
	require.NoError(t, err)
	assert.Contains(t, out, "hero: "+ds[idx].Name+"\n")
}

func TestToday_BadDate(t *testing.T) {
	_, err := run(t, "today", "--date", "02/01/2024")
	assert.Error(t, err)
}

func TestImportThenToday(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "heroes.yaml")
	require.NoError(t, os.WriteFile(src, []byte("- name: Anivia\n  role: Mage\n- name: Annie\n  role: Mage\n"), 0o644))
	dbPath := filepath.Join(dir, "heroes.db")

	out, err := run(t, "import", "--db", dbPath, "--from", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 heroes")

	// 2024-01-02 is an even epoch day: index 0.
	out, err = run(t, "today", "--db", dbPath, "--date", "2024-01-02", "--reveal")
	require.NoError(t, err)
	assert.Contains(t, out, "index: 0\n")
	assert.Contains(t, out, "hero: Anivia\n")
}

func TestImport_DatasetAlias(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "heroes.json")
	require.NoError(t, os.WriteFile(src, []byte(`[{"name":"Zed"},{"name":"Zoe"},{"name":"Zac"}]`), 0o644))
	dbPath := filepath.Join(dir, "heroes.db")

	out, err := run(t, "import", "--db", dbPath, "--dataset", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 3 heroes")

	_, err = run(t, "import", "--db", dbPath, "--dataset", src, "--from", filepath.Join(dir, "other.json"))
	assert.Error(t, err)
}

func TestConfig_MatchTolerance(t *testing.T) {
	assert.Equal(t, -1, (&Config{tolerance: 0}).matchTolerance())
	assert.Equal(t, 2, (&Config{tolerance: 2}).matchTolerance())
}

func TestImport_NeedsDB(t *testing.T) {
	_, err := run(t, "import")
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }

	c := game.NewCatalog()
	loadCatalog(context.Background(), &Config{}, c, now)
	st, err := c.State()
	assert.Equal(t, game.CatalogReady, st)
	assert.NoError(t, err)
	assert.NotNil(t, c.Target(now()))

	failed := game.NewCatalog()
	loadCatalog(context.Background(), &Config{dataset: filepath.Join(t.TempDir(), "missing.json")}, failed, now)
	st, err = failed.State()
	assert.Equal(t, game.CatalogFailed, st)
	assert.Error(t, err)
}
