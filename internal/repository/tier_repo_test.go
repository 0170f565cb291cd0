package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestListActiveTiers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	idA, idB := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "product_id", "minimum_quantity", "maximum_quantity",
		"discount_type", "discount_value", "customer_tier", "is_active",
		"created_at", "updated_at",
	}).
		AddRow(idA.String(), "prod-1", 20, nil, "percentage", 30.0, nil, true, now, now).
		AddRow(idB.String(), "prod-1", 10, 50, "percentage", 20.0, "wholesale", true, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM bulk_pricing_tiers\s+WHERE product_id = \$1\s+AND is_active = TRUE`).
		WithArgs("prod-1", 25).
		WillReturnRows(rows)

	repo := NewTierRepo(db)
	tiers, err := repo.ListActiveTiers(context.Background(), "prod-1", 25)
	require.NoError(t, err)
	require.Len(t, tiers, 2)

	require.Equal(t, idA, tiers[0].ID)
	require.Equal(t, 20, tiers[0].MinimumQuantity)
	require.Nil(t, tiers[0].MaximumQuantity)
	require.Nil(t, tiers[0].CustomerTier)

	require.NotNil(t, tiers[1].MaximumQuantity)
	require.Equal(t, 50, *tiers[1].MaximumQuantity)
	require.NotNil(t, tiers[1].CustomerTier)
	require.Equal(t, "wholesale", *tiers[1].CustomerTier)
	require.NoError(t, mock.ExpectationsWereMet())
}
