package report_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/internal/core/id"
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/reports"
)

func TestLineItemsQuery(t *testing.T) {
	r := NewReportRepo(nil, 0)
	until := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	q, err := r.lineItemsQuery(ledger.LegOutbound, reports.LineFilter{
		SystemCode: "FROZEN",
		Warehouse:  "Kho A",
		Status:     ledger.StatusCompleted,
		Until:      until,
	})
	require.NoError(t, err)

	sql, args, err := q.Limit(1000).Offset(2000).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM outbound_order_items i JOIN outbound_orders o ON o.id = i.order_id")
	assert.Contains(t, sql, "WHERE o.system_code = $1 AND o.status = $2 AND o.warehouse_name = $3 AND o.created_at < $4")
	assert.Contains(t, sql, "ORDER BY i.id LIMIT 1000 OFFSET 2000")
	assert.Equal(t, []any{"FROZEN", ledger.StatusCompleted, "Kho A", until}, args)
}

func TestLineItemsQuery_AllWarehouses(t *testing.T) {
	r := NewReportRepo(nil, 0)
	q, err := r.lineItemsQuery(ledger.LegInbound, reports.LineFilter{SystemCode: "DRY"})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM inbound_order_items i")
	assert.NotContains(t, sql, "warehouse_name =")
	assert.NotContains(t, sql, "created_at <")
	assert.Equal(t, []any{"DRY"}, args)
}

func TestLineItemsQuery_UnknownLeg(t *testing.T) {
	_, err := NewReportRepo(nil, 0).lineItemsQuery(ledger.Leg("transfer"), reports.LineFilter{})
	assert.Error(t, err)
}

func TestLotQueries(t *testing.T) {
	r := NewReportRepo(nil, 500)
	assert.Equal(t, 500, r.pageSize)

	sql, args, err := r.lotsQuery(reports.LotFilter{SystemCode: "FROZEN", Status: "active"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "COALESCE(l.position_code, '') AS position_code")
	assert.Contains(t, sql, "l.metadata")
	assert.Contains(t, sql, "WHERE l.system_code = $1 AND l.status = $2")
	assert.Equal(t, []any{"FROZEN", "active"}, args)

	ids := []id.ID{id.New(), id.New()}
	sql, args, err = r.lotItemsQuery(ids).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE li.lot_id = ANY($1)")
	assert.Equal(t, []any{ids}, args)

	sql, _, err = r.lotTagsQuery(ids).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "lt.lot_item_id")
	assert.Contains(t, sql, "COALESCE(lt.tag, '') AS tag")
}
