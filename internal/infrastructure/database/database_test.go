package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/internal/infrastructure/database"
	"github.com/sangkips/festkasse-api/internal/infrastructure/database/dbtest"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsCreateSchema(t *testing.T) {
	db := dbtest.New(t)

	for _, table := range []string{
		"app_settings", "pickup_groups", "categories", "products", "registers",
		"receipts", "receipt_items", "print_jobs", "idempotency_keys",
	} {
		assert.True(t, db.Migrator().HasTable(table), "table %s", table)
	}

	migrator, err := database.NewMigrator(db, database.DriverSQLite, nil)
	require.NoError(t, err)
	version, err := migrator.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 2, version)
}

func TestMigrationsDownAndUp(t *testing.T) {
	db := dbtest.New(t)
	migrator, err := database.NewMigrator(db, database.DriverSQLite, nil)
	require.NoError(t, err)

	require.NoError(t, migrator.Run(context.Background(), "down"))
	assert.False(t, db.Migrator().HasTable("idempotency_keys"))

	require.NoError(t, migrator.Up(context.Background()))
	assert.True(t, db.Migrator().HasTable("idempotency_keys"))
}

func TestSeedDefaultDataIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	now := time.Date(2026, 7, 4, 18, 30, 0, 0, time.Local)

	require.NoError(t, database.SeedDefaultData(ctx, db, logger.Nop(), "reg-1", now))

	var register entity.Register
	require.NoError(t, db.First(&register, "id = ?", "reg-1").Error)
	register.Counter = 7
	require.NoError(t, db.Save(&register).Error)

	require.NoError(t, database.SeedDefaultData(ctx, db, logger.Nop(), "reg-1", now.AddDate(0, 0, 1)))

	var groups []entity.PickupGroup
	require.NoError(t, db.Order("sort_index").Find(&groups).Error)
	require.Len(t, groups, 2)
	assert.Equal(t, "Ausschank", groups[0].Name)
	assert.Equal(t, database.GroupBuffetID, groups[1].ID)

	var categories []entity.Category
	require.NoError(t, db.Find(&categories).Error)
	require.Len(t, categories, 3)
	for _, c := range categories {
		require.NotNil(t, c.DefaultGroupID)
		assert.Equal(t, database.GroupBuffetID, *c.DefaultGroupID)
	}

	require.NoError(t, db.First(&register, "id = ?", "reg-1").Error)
	assert.Equal(t, "K1", register.Prefix)
	assert.Equal(t, "2026-07-04", register.CounterDate)
	assert.Equal(t, 7, register.Counter, "existing register is not reset")
}

func TestSeedRequiresRegisterID(t *testing.T) {
	db := dbtest.New(t)

	err := database.SeedDefaultData(context.Background(), db, logger.Nop(), "", time.Now())
	assert.Error(t, err)
}
