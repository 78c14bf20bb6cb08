package reports

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/cel-go/cel"

	"warehub/internal/core/apperror"
	"warehub/internal/core/types"
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/reconcile"
)

// Predicate is a compiled boolean row filter written in CEL.
type Predicate struct {
	expr    string
	program cel.Program
}

var (
	ledgerVars = []cel.EnvOption{
		cel.Variable("productId", cel.StringType),
		cel.Variable("productCode", cel.StringType),
		cel.Variable("productName", cel.StringType),
		cel.Variable("warehouse", cel.StringType),
		cel.Variable("unit", cel.StringType),
		cel.Variable("opening", cel.DoubleType),
		cel.Variable("qtyIn", cel.DoubleType),
		cel.Variable("qtyOut", cel.DoubleType),
		cel.Variable("balance", cel.DoubleType),
		cel.Variable("isUnconvertible", cel.BoolType),
	}

	reconciliationVars = []cel.EnvOption{
		cel.Variable("productId", cel.StringType),
		cel.Variable("productCode", cel.StringType),
		cel.Variable("productName", cel.StringType),
		cel.Variable("unit", cel.StringType),
		cel.Variable("accountingBalance", cel.DoubleType),
		cel.Variable("lotBalance", cel.DoubleType),
		cel.Variable("diff", cel.DoubleType),
		cel.Variable("pendingInbound", cel.DoubleType),
		cel.Variable("pendingExport", cel.DoubleType),
		cel.Variable("unexplainedDiff", cel.DoubleType),
		cel.Variable("isUnconvertible", cel.BoolType),
	}
)

// compilePredicate returns nil for an empty expression.
func compilePredicate(expr string, vars []cel.EnvOption) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	opts := append([]cel.EnvOption{cel.CrossTypeNumericComparisons(true)}, vars...)
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("cel env: %w", err))
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, apperror.NewValidation("Invalid where expression").
			WithDetail("field", "where").
			WithDetail("reason", issues.Err().Error())
	}
	if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
		return nil, apperror.NewValidation("Where expression must evaluate to a boolean").
			WithDetail("field", "where")
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, apperror.NewValidation("Invalid where expression").
			WithDetail("field", "where").
			WithDetail("reason", err.Error())
	}
	return &Predicate{expr: expr, program: program}, nil
}

// CompileLedgerPredicate compiles a filter over ledger rows.
func CompileLedgerPredicate(expr string) (*Predicate, error) {
	return compilePredicate(expr, ledgerVars)
}

// CompileReconciliationPredicate compiles a filter over reconciliation rows.
func CompileReconciliationPredicate(expr string) (*Predicate, error) {
	return compilePredicate(expr, reconciliationVars)
}

// eval treats runtime errors (e.g. a missing map key) as a non-match.
func (p *Predicate) eval(vars map[string]any) bool {
	out, _, err := p.program.Eval(vars)
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// MatchLedger reports whether the row passes the predicate.
func (p *Predicate) MatchLedger(r ledger.BalanceRow) bool {
	if p == nil {
		return true
	}
	return p.eval(map[string]any{
		"productId":       r.ProductID.String(),
		"productCode":     r.ProductCode,
		"productName":     r.ProductName,
		"warehouse":       r.Warehouse,
		"unit":            r.Unit,
		"opening":         types.Float64(r.Opening),
		"qtyIn":           types.Float64(r.QtyIn),
		"qtyOut":          types.Float64(r.QtyOut),
		"balance":         types.Float64(r.Balance),
		"isUnconvertible": r.IsUnconvertible,
	})
}

// MatchReconciliation reports whether the row passes the predicate.
func (p *Predicate) MatchReconciliation(r reconcile.Row) bool {
	if p == nil {
		return true
	}
	return p.eval(map[string]any{
		"productId":         r.ProductID.String(),
		"productCode":       r.ProductCode,
		"productName":       r.ProductName,
		"unit":              r.Unit,
		"accountingBalance": types.Float64(r.AccountingBalance),
		"lotBalance":        types.Float64(r.LotBalance),
		"diff":              types.Float64(r.Diff),
		"pendingInbound":    types.Float64(r.PendingInbound),
		"pendingExport":     types.Float64(r.PendingExport),
		"unexplainedDiff":   types.Float64(r.UnexplainedDiff),
		"isUnconvertible":   r.IsUnconvertible,
	})
}

// String returns the source expression.
func (p *Predicate) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}
