package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/internal/core/apperror"
	"warehub/internal/core/types"
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/reconcile"
)

func TestCompileLedgerPredicate(t *testing.T) {
	negative := ledger.BalanceRow{ProductCode: "SH-01", Balance: types.MustQuantity("-2.5")}
	positive := ledger.BalanceRow{ProductCode: "SQ-01", Balance: types.MustQuantity("4"), IsUnconvertible: true}

	tests := []struct {
		name     string
		expr     string
		negative bool
		positive bool
	}{
		{"empty matches all", "", true, true},
		{"negative balance", "balance < 0.0", true, false},
		{"flag", "isUnconvertible", false, true},
		{"string function", `productCode.startsWith("SH")`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompileLedgerPredicate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.negative, p.MatchLedger(negative))
			assert.Equal(t, tt.positive, p.MatchLedger(positive))
		})
	}
}

func TestCompileReconciliationPredicate(t *testing.T) {
	p, err := CompileReconciliationPredicate("diff != 0.0 && !isUnconvertible")
	require.NoError(t, err)
	assert.Equal(t, "diff != 0.0 && !isUnconvertible", p.String())

	assert.True(t, p.MatchReconciliation(reconcile.Row{Diff: types.MustQuantity("3")}))
	assert.False(t, p.MatchReconciliation(reconcile.Row{Diff: types.MustQuantity("3"), IsUnconvertible: true}))
	assert.False(t, p.MatchReconciliation(reconcile.Row{Diff: types.Zero()}))
}

func TestCompilePredicate_Rejects(t *testing.T) {
	for _, expr := range []string{
		"balance <",
		"unknownField > 1.0",
		"balance + 1.0",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := CompileLedgerPredicate(expr)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		})
	}
}

func TestNormalizeWarehouse(t *testing.T) {
	assert.Equal(t, "", NormalizeWarehouse(""))
	assert.Equal(t, "", NormalizeWarehouse("ALL"))
	assert.Equal(t, "", NormalizeWarehouse(" Tất cả "))
	assert.Equal(t, "Kho A", NormalizeWarehouse(" Kho A"))
}
