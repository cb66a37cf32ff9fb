package migration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add_index", "add_index"},
		{"Add Stock Alerts", "add_stock_alerts"},
		{"drop--legacy  column", "drop_legacy_column"},
		{"  trim me  ", "trim_me"},
		{"v2 (beta)!", "v2_beta"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_create_finance.up.sql":   {},
		"000002_create_finance.down.sql": {},
		"000001_create_inventory.up.sql": {},
		"000003_no_down.up.sql":          {},
		"README.md":                      {},
		"notes.sql":                      {},
		"000004_bad.sideways.sql":        {},
		"sub/000009_nested.up.sql":       {},
	}

	entries, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{Version: 1, Name: "create_inventory"}, entries[0])
	assert.Equal(t, Entry{Version: 2, Name: "create_finance", HasDown: true}, entries[1])
	assert.Equal(t, "000003_no_down", entries[2].String())
}

func TestEmbeddedMigrations_AreReversibleAndContiguous(t *testing.T) {
	entries, err := ListMigrations(Embedded())
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for i, e := range entries {
		assert.Equal(t, uint(i+1), e.Version, "migration versions must be contiguous")
		assert.True(t, e.HasDown, "migration %s has no down file", e)
	}
}

func TestEmbeddedMigrations_CreateLedgerIndexes(t *testing.T) {
	var schema strings.Builder
	entries, err := ListMigrations(Embedded())
	require.NoError(t, err)
	for _, e := range entries {
		data, err := fs.ReadFile(Embedded(), e.String()+".up.sql")
		require.NoError(t, err)
		schema.Write(data)
	}

	sql := schema.String()
	for _, idx := range []string{
		"idx_stock_movements_source",
		"idx_commissions_source",
		"idx_transactions_source",
		"idx_cash_registers_open_operator",
	} {
		assert.Contains(t, sql, "CREATE UNIQUE INDEX IF NOT EXISTS "+idx)
	}
	assert.Contains(t, sql, "WHERE status = 'OPEN'")
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "Add stock alerts", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_stock_alerts.up.sql"), first.UpPath)
	assert.FileExists(t, first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add stock alerts")

	second, err := CreateMigration(dir, "index transactions", "Index transactions by date")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	entries, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "???", "")
	assert.Error(t, err)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.FileExists(t, mf.UpPath)
}
