package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Embebidas(t *testing.T) {
	list, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, list)

	assert.Equal(t, 1, list[0].Version)
	assert.Equal(t, "ledger", list[0].Description)
	assert.Contains(t, list[0].UpSQL, "CREATE TABLE IF NOT EXISTS stock_movements")
	assert.Contains(t, list[0].UpSQL, "ux_products_active_name")
	assert.NotContains(t, list[0].UpSQL, "DROP TABLE")
	assert.Contains(t, list[0].DownSQL, "DROP TABLE IF EXISTS products")
}

func TestParseMigration(t *testing.T) {
	up, down := parseMigration("-- +migrate Up\nCREATE TABLE a (id int);\n-- +migrate Down\nDROP TABLE a;\n")
	assert.Equal(t, "CREATE TABLE a (id int);", up)
	assert.Equal(t, "DROP TABLE a;", down)

	up, down = parseMigration("SELECT 1;")
	assert.Equal(t, "SELECT 1;", up)
	assert.Empty(t, down)
}
