package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rmolina-dev/pos-backend/pkg/db/models"
	"github.com/rmolina-dev/pos-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:sales_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  total NUMERIC NOT NULL,
  items TEXT NOT NULL DEFAULT '[]',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func insertSale(t *testing.T, db *gorm.DB, storeID uuid.UUID, createdAt time.Time) models.Sale {
	t.Helper()
	sale := models.Sale{
		ID:        uuid.New(),
		StoreID:   storeID,
		UserID:    uuid.New(),
		Total:     decimal.RequireFromString("9.99"),
		Items:     models.SaleItems{{ProductID: uuid.New(), Name: "coffee", Price: decimal.RequireFromString("3.33"), Quantity: 3}},
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&sale).Error)
	return sale
}

func TestRepositoryListByStoreOrdersNewestFirst(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := insertSale(t, db, storeID, base.Add(-2*time.Hour))
	middle := insertSale(t, db, storeID, base.Add(-1*time.Hour))
	newest := insertSale(t, db, storeID, base)
	insertSale(t, db, uuid.New(), base) // other-store row must not appear

	rows, err := repo.ListByStore(ctx, storeID, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)
	assert.Equal(t, oldest.ID, rows[2].ID)
}

func TestRepositoryListByStoreCursorWindow(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var seeded []models.Sale
	for i := 0; i < 4; i++ {
		seeded = append(seeded, insertSale(t, db, storeID, base.Add(-time.Duration(i)*time.Minute)))
	}

	first, err := repo.ListByStore(ctx, storeID, 2, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)

	cursor := &pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	second, err := repo.ListByStore(ctx, storeID, 2, cursor)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, seeded[2].ID, second[0].ID)
	assert.Equal(t, seeded[3].ID, second[1].ID)
}

func TestRepositoryRoundTripsItemSnapshot(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)

	storeID := uuid.New()
	inserted := insertSale(t, db, storeID, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	loaded, err := repo.FindByID(context.Background(), inserted.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "coffee", loaded.Items[0].Name)
	assert.True(t, loaded.Items[0].Price.Equal(decimal.RequireFromString("3.33")))
	assert.Equal(t, 3, loaded.Items[0].Quantity)
}
