package repositories

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbm "angido/internal/models/db_models"
)

// newTestDB opens a private in-memory database with every table except the
// pgvector-backed embeddings.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	// Each connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&dbm.Account{},
		&dbm.Province{},
		&dbm.Tag{},
		&dbm.Place{},
		&dbm.Review{},
		&dbm.Itinerary{},
		&dbm.ItineraryDay{},
		&dbm.ItineraryActivity{},
		&dbm.AISuggestion{},
		&dbm.AIUsage{},
		&dbm.Plan{},
		&dbm.Subscription{},
		&dbm.Transaction{},
	))
	return db
}

func seedPlace(t *testing.T, db *gorm.DB, name string) dbm.Place {
	t.Helper()
	place := dbm.Place{
		Name:     name,
		Slug:     "p-" + uuid.NewString()[:8],
		Category: dbm.CategoryRestaurant,
		Status:   dbm.PlaceActive,
	}
	require.NoError(t, db.Omit("Tags", "Province", "Reviews").Create(&place).Error)
	return place
}

func reloadPlace(t *testing.T, db *gorm.DB, id uuid.UUID) dbm.Place {
	t.Helper()
	var place dbm.Place
	require.NoError(t, db.First(&place, "id = ?", id).Error)
	return place
}
