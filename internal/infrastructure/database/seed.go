package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/festkasse-api/internal/domain/entity"
	"github.com/sangkips/festkasse-api/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed identifiers referenced by routing rules
const (
	GroupBarID    = "grp_ausschank"
	GroupBuffetID = "grp_buffet"
)

// SeedDefaultData creates the default pickup stations, categories and the
// register identified by registerID. Existing rows are left untouched.
func SeedDefaultData(ctx context.Context, db *gorm.DB, log *logger.Logger, registerID string, now time.Time) error {
	log.Info(ctx, "Seeding default data...")

	groups := []entity.PickupGroup{
		{ID: GroupBarID, Name: "Ausschank", SortIndex: 10},
		{ID: GroupBuffetID, Name: "Buffet", SortIndex: 20},
	}
	for i := range groups {
		if err := insertIfMissing(ctx, db, &groups[i]); err != nil {
			log.Warnf(ctx, "failed to create pickup group %s: %v", groups[i].ID, err)
		}
	}

	buffet := GroupBuffetID
	categories := []entity.Category{
		{ID: "cat_drinks", Name: "Getränke", SortIndex: 10, DefaultGroupID: &buffet},
		{ID: "cat_food", Name: "Essen", SortIndex: 20, DefaultGroupID: &buffet},
		{ID: "cat_kke", Name: "Kaffee–Kuchen–Eis", SortIndex: 30, DefaultGroupID: &buffet},
	}
	for i := range categories {
		if err := insertIfMissing(ctx, db, &categories[i]); err != nil {
			log.Warnf(ctx, "failed to create category %s: %v", categories[i].ID, err)
		}
	}

	if registerID == "" {
		return fmt.Errorf("seed: register id is required")
	}
	register := entity.Register{
		ID:          registerID,
		Name:        "K1 Allgemein",
		Prefix:      "K1",
		CounterDate: now.Format(entity.CounterDateLayout),
		Counter:     0,
	}
	if err := insertIfMissing(ctx, db, &register); err != nil {
		return fmt.Errorf("seed: creating register: %w", err)
	}

	log.Info(ctx, "Default data seeding completed")
	return nil
}

func insertIfMissing(ctx context.Context, db *gorm.DB, row interface{}) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}
