package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/internal/core/id"
	"warehub/internal/core/types"
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/lots"
	"warehub/internal/domain/reports"
)

func TestListLineItems_Filters(t *testing.T) {
	at := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	mk := func(system, warehouse, status string, created time.Time) ledger.LineItem {
		return ledger.LineItem{
			ProductID:  id.New(),
			Quantity:   types.MustQuantity("1"),
			Unit:       "Kg",
			Status:     status,
			Warehouse:  warehouse,
			CreatedAt:  created,
			SystemCode: system,
		}
	}

	src := NewSource().AddLineItems(ledger.LegInbound,
		mk("FROZEN", "Kho A", ledger.StatusCompleted, at),
		mk("FROZEN", "Kho B", ledger.StatusCompleted, at),
		mk("FROZEN", "Kho A", "draft", at),
		mk("DRY", "Kho A", ledger.StatusCompleted, at),
		mk("FROZEN", "Kho A", ledger.StatusCompleted, at.AddDate(0, 1, 0)),
	)

	got, err := src.ListLineItems(context.Background(), ledger.LegInbound, reports.LineFilter{
		SystemCode: "FROZEN",
		Warehouse:  "Kho A",
		Status:     ledger.StatusCompleted,
		Until:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = src.ListLineItems(context.Background(), ledger.LegOutbound, reports.LineFilter{SystemCode: "FROZEN"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListLots_Filters(t *testing.T) {
	src := NewSource().AddLots(
		lots.Lot{ID: id.New(), Code: "A", Status: lots.StatusActive, SystemCode: "FROZEN", Warehouse: "Kho A"},
		lots.Lot{ID: id.New(), Code: "B", Status: "closed", SystemCode: "FROZEN", Warehouse: "Kho A"},
		lots.Lot{ID: id.New(), Code: "C", Status: lots.StatusActive, SystemCode: "DRY", Warehouse: "Kho A"},
	)

	got, err := src.ListLots(context.Background(), reports.LotFilter{SystemCode: "FROZEN", Status: lots.StatusActive})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Code)
}

func TestFailOn(t *testing.T) {
	boom := errors.New("boom")
	src := NewSource().FailOn(reports.SourceUnits, boom)

	_, err := src.ListUnits(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = src.ListProducts(context.Background())
	assert.NoError(t, err)
}
