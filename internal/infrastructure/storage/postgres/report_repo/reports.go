// Package report_repo implements the report read contract over PostgreSQL.
// Every list is fetched page by page inside the caller's transaction.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"warehub/internal/core/id"
	"warehub/internal/domain/catalog"
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/lots"
	"warehub/internal/domain/reports"
	"warehub/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// nilUUID stands in for missing product references so rows scan into id.ID.
const nilUUID = "'00000000-0000-0000-0000-000000000000'::uuid"

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm      *postgres.TxManager
	builder  squirrel.StatementBuilderType
	pageSize int
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager, pageSize int) *ReportRepo {
	if pageSize <= 0 {
		pageSize = postgres.DefaultPageSize
	}
	return &ReportRepo{
		txm:      txm,
		builder:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		pageSize: pageSize,
	}
}

// selectAll pages through q, which must carry a stable ORDER BY.
func selectAll[T any](ctx context.Context, r *ReportRepo, q squirrel.SelectBuilder) ([]T, error) {
	querier := r.txm.GetQuerier(ctx)
	return postgres.FetchAll[T](ctx, r.pageSize, func(ctx context.Context, limit, offset uint64) ([]T, error) {
		sql, args, err := q.Limit(limit).Offset(offset).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build query: %w", err)
		}
		var page []T
		if err := pgxscan.Select(ctx, querier, &page, sql, args...); err != nil {
			return nil, err
		}
		return page, nil
	})
}

func legTables(leg ledger.Leg) (items, orders string, err error) {
	switch leg {
	case ledger.LegInbound:
		return "inbound_order_items", "inbound_orders", nil
	case ledger.LegOutbound:
		return "outbound_order_items", "outbound_orders", nil
	default:
		return "", "", fmt.Errorf("unknown ledger leg %q", leg)
	}
}

func (r *ReportRepo) lineItemsQuery(leg ledger.Leg, filter reports.LineFilter) (squirrel.SelectBuilder, error) {
	items, orders, err := legTables(leg)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}

	q := r.builder.
		Select(
			"COALESCE(i.product_id, "+nilUUID+") AS product_id",
			"COALESCE(i.product_name, '') AS product_name",
			"COALESCE(i.unit, '') AS unit",
			"COALESCE(i.quantity, 0) AS quantity",
			"o.status",
			"COALESCE(o.warehouse_name, '') AS warehouse_name",
			"o.created_at",
			"o.system_code",
		).
		From(items + " i").
		Join(orders + " o ON o.id = i.order_id").
		Where(squirrel.Eq{"o.system_code": filter.SystemCode}).
		OrderBy("i.id")

	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"o.status": filter.Status})
	}
	if filter.Warehouse != "" {
		q = q.Where(squirrel.Eq{"o.warehouse_name": filter.Warehouse})
	}
	if !filter.Until.IsZero() {
		q = q.Where(squirrel.Lt{"o.created_at": filter.Until})
	}
	return q, nil
}

// ListLineItems returns the order lines of one leg joined with their orders.
func (r *ReportRepo) ListLineItems(ctx context.Context, leg ledger.Leg, filter reports.LineFilter) ([]ledger.LineItem, error) {
	q, err := r.lineItemsQuery(leg, filter)
	if err != nil {
		return nil, err
	}
	rows, err := selectAll[ledger.LineItem](ctx, r, q)
	if err != nil {
		return nil, fmt.Errorf("list %s line items: %w", leg, err)
	}
	return rows, nil
}

// ListProducts returns the product master.
func (r *ReportRepo) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	q := r.builder.
		Select(postgres.SelectColumns[catalog.Product]("p", "sku", "unit")...).
		From("products p").
		OrderBy("p.id")
	rows, err := selectAll[catalog.Product](ctx, r, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}

// ListUnits returns the unit master.
func (r *ReportRepo) ListUnits(ctx context.Context) ([]catalog.Unit, error) {
	q := r.builder.
		Select(postgres.SelectColumns[catalog.Unit]("u", "name")...).
		From("units u").
		OrderBy("u.id")
	rows, err := selectAll[catalog.Unit](ctx, r, q)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return rows, nil
}

// ListConversionRates returns product-specific unit rates.
func (r *ReportRepo) ListConversionRates(ctx context.Context) ([]catalog.ConversionRate, error) {
	q := r.builder.
		Select(postgres.SelectColumns[catalog.ConversionRate]("pu")...).
		From("product_units pu").
		Where("pu.conversion_rate IS NOT NULL").
		OrderBy("pu.product_id", "pu.unit_id")
	rows, err := selectAll[catalog.ConversionRate](ctx, r, q)
	if err != nil {
		return nil, fmt.Errorf("list conversion rates: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) lotsQuery(filter reports.LotFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select(postgres.SelectColumns[lots.Lot]("l", "code", "status", "system_code", "warehouse_name", "position_code", "unit")...).
		From("lots l").
		Where(squirrel.Eq{"l.system_code": filter.SystemCode}).
		OrderBy("l.code", "l.id")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"l.status": filter.Status})
	}
	if filter.Warehouse != "" {
		q = q.Where(squirrel.Eq{"l.warehouse_name": filter.Warehouse})
	}
	return q
}

func (r *ReportRepo) lotItemsQuery(lotIDs []id.ID) squirrel.SelectBuilder {
	return r.builder.
		Select(
			"li.id",
			"li.lot_id",
			"COALESCE(li.product_id, "+nilUUID+") AS product_id",
			"COALESCE(li.quantity, 0) AS quantity",
			"COALESCE(li.unit, '') AS unit",
		).
		From("lot_items li").
		Where("li.lot_id = ANY(?)", lotIDs).
		OrderBy("li.lot_id", "li.id")
}

func (r *ReportRepo) lotTagsQuery(lotIDs []id.ID) squirrel.SelectBuilder {
	return r.builder.
		Select(postgres.SelectColumns[lots.Tag]("lt", "tag")...).
		From("lot_tags lt").
		Where("lt.lot_id = ANY(?)", lotIDs).
		OrderBy("lt.lot_id", "lt.tag", "lt.lot_item_id")
}

// ListLots returns lots with their items and tags attached.
func (r *ReportRepo) ListLots(ctx context.Context, filter reports.LotFilter) ([]lots.Lot, error) {
	lotList, err := selectAll[lots.Lot](ctx, r, r.lotsQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	if len(lotList) == 0 {
		return lotList, nil
	}

	byID := make(map[id.ID]int, len(lotList))
	for i, l := range lotList {
		byID[l.ID] = i
	}

	for start := 0; start < len(lotList); start += r.pageSize {
		end := min(start+r.pageSize, len(lotList))
		ids := make([]id.ID, 0, end-start)
		for _, l := range lotList[start:end] {
			ids = append(ids, l.ID)
		}

		items, err := selectAll[lots.Item](ctx, r, r.lotItemsQuery(ids))
		if err != nil {
			return nil, fmt.Errorf("list lot items: %w", err)
		}
		for _, it := range items {
			if i, ok := byID[it.LotID]; ok {
				lotList[i].Items = append(lotList[i].Items, it)
			}
		}

		tags, err := selectAll[lots.Tag](ctx, r, r.lotTagsQuery(ids))
		if err != nil {
			return nil, fmt.Errorf("list lot tags: %w", err)
		}
		for _, t := range tags {
			if i, ok := byID[t.LotID]; ok {
				lotList[i].Tags = append(lotList[i].Tags, t)
			}
		}
	}
	return lotList, nil
}
