package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeMigration struct {
	table string
}

func (m *fakeMigration) Up(db *gorm.DB) error {
	return db.Exec("CREATE TABLE " + m.table + " (id INTEGER PRIMARY KEY)").Error
}

func (m *fakeMigration) Down(db *gorm.DB) error {
	return db.Exec("DROP TABLE " + m.table).Error
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func withRegistry(t *testing.T, regs []registeredMigration) {
	t.Helper()
	old := registry
	registry = regs
	t.Cleanup(func() { registry = old })
}

func TestRunAndRollback(t *testing.T) {
	db := testDB(t)
	withRegistry(t, []registeredMigration{
		{name: "20260301000000_create_alpha", m: &fakeMigration{table: "alpha"}},
		{name: "20260301000001_create_beta", m: &fakeMigration{table: "beta"}},
	})

	runner := New(db)
	require.NoError(t, runner.Run())

	assert.True(t, db.Migrator().HasTable("alpha"))
	assert.True(t, db.Migrator().HasTable("beta"))

	var count int64
	db.Model(&migrationRecord{}).Count(&count)
	assert.Equal(t, int64(2), count)

	// Both ran in one batch, so one rollback reverses both.
	require.NoError(t, runner.Rollback())
	assert.False(t, db.Migrator().HasTable("alpha"))
	assert.False(t, db.Migrator().HasTable("beta"))

	db.Model(&migrationRecord{}).Count(&count)
	assert.Zero(t, count)
}

func TestRunIsIdempotent(t *testing.T) {
	db := testDB(t)
	withRegistry(t, []registeredMigration{
		{name: "20260301000000_create_alpha", m: &fakeMigration{table: "alpha"}},
	})

	runner := New(db)
	require.NoError(t, runner.Run())
	require.NoError(t, runner.Run(), "second run has nothing to do")

	var count int64
	db.Model(&migrationRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBatchesRollBackSeparately(t *testing.T) {
	db := testDB(t)
	withRegistry(t, []registeredMigration{
		{name: "20260301000000_create_alpha", m: &fakeMigration{table: "alpha"}},
	})

	runner := New(db)
	require.NoError(t, runner.Run())

	registry = append(registry, registeredMigration{
		name: "20260301000001_create_beta", m: &fakeMigration{table: "beta"},
	})
	require.NoError(t, runner.Run())

	// Rollback only removes the newest batch.
	require.NoError(t, runner.Rollback())
	assert.True(t, db.Migrator().HasTable("alpha"))
	assert.False(t, db.Migrator().HasTable("beta"))
}

func TestPendingOrder(t *testing.T) {
	db := testDB(t)
	withRegistry(t, []registeredMigration{
		{name: "20260301000001_create_beta", m: &fakeMigration{table: "beta"}},
		{name: "20260301000000_create_alpha", m: &fakeMigration{table: "alpha"}},
	})

	runner := New(db)
	require.NoError(t, runner.EnsureTable())

	pending, err := runner.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "20260301000000_create_alpha", pending[0].name)
}
