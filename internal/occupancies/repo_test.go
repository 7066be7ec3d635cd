package occupancies

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

func setupOccupanciesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS occupancies (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  unit_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  started_at DATETIME NOT NULL,
  ended_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec(`DELETE FROM occupancies`).Error)

	return db
}

func seedOccupancy(t *testing.T, db *gorm.DB, tenantID, unitID, userID uuid.UUID, status enums.OccupancyStatus) models.Occupancy {
	t.Helper()
	occ := models.Occupancy{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UnitID:    unitID,
		UserID:    userID,
		Role:      enums.MemberRoleResident,
		Status:    status,
		StartedAt: time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&occ).Error)
	return occ
}

func TestHasActiveForUser(t *testing.T) {
	db := setupOccupanciesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	unitID := uuid.New()
	userID := uuid.New()

	seedOccupancy(t, db, tenantID, unitID, userID, enums.OccupancyStatusActive)

	ok, err := repo.HasActiveForUser(ctx, tenantID, userID, unitID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasActiveForUser(ctx, tenantID, userID, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	// ended occupancy does not grant visibility
	otherUnit := uuid.New()
	seedOccupancy(t, db, tenantID, otherUnit, userID, enums.OccupancyStatusEnded)
	ok, err = repo.HasActiveForUser(ctx, tenantID, userID, otherUnit)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasActiveForUserIgnoresOtherTenants(t *testing.T) {
	db := setupOccupanciesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	unitID := uuid.New()
	userID := uuid.New()
	seedOccupancy(t, db, uuid.New(), unitID, userID, enums.OccupancyStatusActive)

	ok, err := repo.HasActiveForUser(ctx, uuid.New(), userID, unitID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListActiveUnitIDsForUser(t *testing.T) {
	db := setupOccupanciesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	userID := uuid.New()

	a := seedOccupancy(t, db, tenantID, uuid.New(), userID, enums.OccupancyStatusActive)
	b := seedOccupancy(t, db, tenantID, uuid.New(), userID, enums.OccupancyStatusActive)
	seedOccupancy(t, db, tenantID, uuid.New(), userID, enums.OccupancyStatusEnded)
	seedOccupancy(t, db, tenantID, uuid.New(), uuid.New(), enums.OccupancyStatusActive)

	ids, err := repo.ListActiveUnitIDsForUser(ctx, tenantID, userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a.UnitID, b.UnitID}, ids)
}

func TestListActiveUnitIDsForUserEmpty(t *testing.T) {
	db := setupOccupanciesTestDB(t)
	repo := NewRepository(db)

	ids, err := repo.ListActiveUnitIDsForUser(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
