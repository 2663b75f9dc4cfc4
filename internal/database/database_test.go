package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"todo/internal/config"
	"todo/internal/database"
	"todo/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigrateClose_SQLite(t *testing.T) {
	cfg := config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "tasks.db"),
	}
	log := zerolog.Nop()

	db, err := database.Open(cfg, config.EnvProd, log)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(cfg, db, log))
	assert.True(t, db.Migrator().HasTable(&model.Task{}))
	for _, column := range []string{"id", "title", "description", "is_completed", "due_date", "category"} {
		assert.True(t, db.Migrator().HasColumn(&model.Task{}, column), column)
	}

	assert.NoError(t, database.Ping(context.Background(), db))
	require.NoError(t, database.Close(db))
	assert.Error(t, database.Ping(context.Background(), db))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open(config.DBConfig{Driver: "mysql"}, config.EnvProd, zerolog.Nop())
	assert.EqualError(t, err, `unsupported driver "mysql"`)
}
