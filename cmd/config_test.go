package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing config file is not an error")
	assert.Equal(t, "ledger.db", cfg.DBFile)
	assert.Equal(t, "average", cfg.CostBasis)
	assert.Equal(t, 10*time.Second, cfg.QuoteTimeout)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"db_file: /tmp/books.db\nmain_currency: EUR\ncost_basis: fifo\n"), 0o644))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/books.db", cfg.DBFile)
	assert.Equal(t, "EUR", cfg.MainCurrency)
	assert.Equal(t, "fifo", cfg.CostBasis)

	// The environment wins over the file.
	t.Setenv("LEDGER_CURRENCY", "USD")
	cfg, err = LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.MainCurrency)
	assert.Equal(t, "/tmp/books.db", cfg.DBFile)
}

func TestLoadConfig_Invalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(file, []byte("db_file: [nope"), 0o644))
	_, err := LoadConfig(file)
	assert.Error(t, err)
}

func TestFindAccountByPath(t *testing.T) {
	book := testCmdBook(t)

	account, err := findAccountByPath(book, "Assets:Bank")
	require.NoError(t, err)
	assert.Equal(t, "bank", account.GUID)

	root, err := findAccountByPath(book, "")
	require.NoError(t, err)
	assert.Equal(t, root.GUID, book.Root().GUID)

	_, err = findAccountByPath(book, "Assets:Nope")
	assert.Error(t, err)
}
