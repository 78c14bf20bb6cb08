package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/collate"

	"warehub/internal/core/apperror"
	"warehub/internal/core/id"
	"warehub/internal/core/tx"
	"warehub/internal/domain/catalog"
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/lots"
	"warehub/internal/domain/reconcile"
	"warehub/internal/domain/tagtree"
	"warehub/internal/domain/uom"
	"warehub/pkg/logger"
)

var tracer = otel.Tracer("warehub/reports")

// Service provides report generation operations.
type Service struct {
	repo     Repository
	txm      tx.ReadOnlyManager
	settings Settings
	now      func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository, txm tx.ReadOnlyManager, settings Settings) *Service {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.WeightTarget.Name == "" {
		settings.WeightTarget = uom.DefaultWeightTarget()
	}
	return &Service{repo: repo, txm: txm, settings: settings, now: time.Now}
}

// Settings returns the service defaults.
func (s *Service) Settings() Settings {
	return s.settings
}

// reference is the catalog part of one snapshot.
type reference struct {
	index    *catalog.Index
	resolver *uom.Resolver
	units    []catalog.Unit
}

func (s *Service) loadReference(ctx context.Context) (*reference, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, apperror.NewDatabase(SourceProducts, err)
	}
	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return nil, apperror.NewDatabase(SourceUnits, err)
	}
	rates, err := s.repo.ListConversionRates(ctx)
	if err != nil {
		return nil, apperror.NewDatabase(SourceRates, err)
	}
	return &reference{
		index:    catalog.NewIndex(products, units),
		resolver: uom.NewResolver(units, rates),
		units:    units,
	}, nil
}

func (s *Service) loadLines(ctx context.Context, filter LineFilter) (inbound, outbound []ledger.LineItem, err error) {
	inbound, err = s.repo.ListLineItems(ctx, ledger.LegInbound, filter)
	if err != nil {
		return nil, nil, apperror.NewDatabase(SourceInbound, err)
	}
	outbound, err = s.repo.ListLineItems(ctx, ledger.LegOutbound, filter)
	if err != nil {
		return nil, nil, apperror.NewDatabase(SourceOutbound, err)
	}
	return inbound, outbound, nil
}

func requireSystemCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return apperror.NewValidation("systemType is required").WithDetail("field", "systemType")
	}
	return nil
}

// target resolves an optional target unit id against the snapshot.
func (r *reference) target(unitID *id.ID) (*uom.Target, error) {
	if unitID == nil {
		return nil, nil
	}
	u, ok := r.index.Unit(*unitID)
	if !ok {
		return nil, apperror.NewInvalidInput("targetUnitId", "Unknown target unit")
	}
	t := uom.TargetFromUnit(u)
	return &t, nil
}

// finishSpan records err on span and logs the failure cause once.
func finishSpan(ctx context.Context, span trace.Span, report string, started time.Time, err error) {
	defer span.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if appErr, ok := apperror.AsAppError(err); ok && appErr.HTTPStatus < 500 {
			logger.Debug(ctx, "report rejected", "report", report, "error", err)
			return
		}
		logger.Error(ctx, "report failed", "report", report, "error", err)
		return
	}
	logger.Info(ctx, "report built", "report", report, "duration", time.Since(started))
}

// GetLedger builds the opening / in / out / balance report.
func (s *Service) GetLedger(ctx context.Context, filter LedgerFilter) (report *LedgerReport, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "reports.ledger", trace.WithAttributes(
		attribute.String("report.system", filter.SystemCode),
		attribute.Bool("report.convert_to_kg", filter.ConvertToKg),
	))
	defer func() { finishSpan(ctx, span, "ledger", started, err) }()

	if err := requireSystemCode(filter.SystemCode); err != nil {
		return nil, err
	}
	if filter.To == nil {
		return nil, apperror.NewValidation("dateTo is required").WithDetail("field", "dateTo")
	}
	var from *time.Time
	if filter.From != nil {
		f := filter.From.In(s.settings.Location)
		from = &f
	}
	window := ledger.NewWindow(from, filter.To.In(s.settings.Location))
	if from != nil && window.From.After(*filter.To) {
		return nil, apperror.NewValidation("dateFrom must not be after dateTo").WithDetail("field", "dateFrom")
	}
	predicate, err := CompileLedgerPredicate(filter.Where)
	if err != nil {
		return nil, err
	}

	var rows []ledger.BalanceRow
	err = s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		ref, err := s.loadReference(ctx)
		if err != nil {
			return err
		}
		inbound, outbound, err := s.loadLines(ctx, LineFilter{
			SystemCode: filter.SystemCode,
			Warehouse:  NormalizeWarehouse(filter.Warehouse),
			Status:     ledger.StatusCompleted,
			Until:      window.Until,
		})
		if err != nil {
			return err
		}

		opts := ledger.Options{Search: filter.Search, Language: s.settings.Language}
		if filter.ConvertToKg {
			target := s.settings.WeightTarget
			opts.Target = &target
		}
		rows = ledger.NewAggregator(ref.index, ref.resolver).Aggregate(inbound, outbound, window, opts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	report = &LedgerReport{Items: make([]ledger.BalanceRow, 0, len(rows))}
	for _, r := range rows {
		if !predicate.MatchLedger(r) {
			continue
		}
		report.Items = append(report.Items, r)
		if r.IsUnconvertible {
			report.UnconvertibleItems++
		}
	}
	report.TotalItems = len(report.Items)
	span.SetAttributes(attribute.Int("report.rows", report.TotalItems))
	return report, nil
}

// GetTagHierarchy builds the tag roll-up of active lot stock.
func (s *Service) GetTagHierarchy(ctx context.Context, filter TagFilter) (report *TagReport, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "reports.tag_hierarchy", trace.WithAttributes(
		attribute.String("report.system", filter.SystemCode),
		attribute.String("report.tag", filter.Tag),
	))
	defer func() { finishSpan(ctx, span, "tag_hierarchy", started, err) }()

	if err := requireSystemCode(filter.SystemCode); err != nil {
		return nil, err
	}

	var entries []tagtree.Entry
	var uniqueTags []string
	err = s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		ref, err := s.loadReference(ctx)
		if err != nil {
			return err
		}

		target, err := ref.target(filter.TargetUnitID)
		if err != nil {
			return err
		}

		lotList, err := s.repo.ListLots(ctx, LotFilter{
			SystemCode: filter.SystemCode,
			Warehouse:  NormalizeWarehouse(filter.Warehouse),
			Status:     lots.StatusActive,
		})
		if err != nil {
			return apperror.NewDatabase(SourceLots, err)
		}

		entries, uniqueTags = s.tagEntries(ref, lots.Records(lotList), filter.Tag, target)
		return nil
	})
	if err != nil {
		return nil, err
	}

	report = &TagReport{Items: tagtree.Build(entries), UniqueTags: uniqueTags}
	nodes := 0
	tagtree.Walk(report.Items, func(*tagtree.Node, int) { nodes++ })
	span.SetAttributes(
		attribute.Int("report.roots", len(report.Items)),
		attribute.Int("report.nodes", nodes),
	)
	return report, nil
}

func (s *Service) tagEntries(ref *reference, records []lots.Record, tagFilter string, target *uom.Target) ([]tagtree.Entry, []string) {
	tagFilter = strings.TrimSpace(tagFilter)
	seen := make(map[string]struct{})
	var tags []string
	var entries []tagtree.Entry

	for _, rec := range records {
		if tagFilter != "" && !rec.HasTag(tagFilter) {
			continue
		}

		code, name := ref.index.Label(rec.ProductID, "")
		detail := tagtree.ProductDetail{
			ProductID:   rec.ProductID,
			ProductCode: code,
			ProductName: name,
			Quantity:    rec.Quantity,
			Unit:        rec.Unit,
			LotCodes:    []string{rec.LotCode},
		}
		if target != nil {
			conv := ref.resolver.Convert(rec.ProductID, rec.Unit, ref.index.BaseUnit(rec.ProductID), rec.Quantity, *target)
			if conv.Unconvertible {
				detail.IsUnconvertible = true
			} else {
				detail.Quantity = conv.Quantity
				detail.Unit = target.Name
			}
		}

		if len(rec.Tags) == 0 {
			entries = append(entries, tagtree.Entry{Product: detail})
			continue
		}
		for _, t := range rec.Tags {
			entries = append(entries, tagtree.Entry{Tag: t, Product: detail})
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
	}

	col := collate.New(s.settings.Language, collate.IgnoreCase)
	sort.SliceStable(entries, func(i, j int) bool {
		return col.CompareString(entries[i].Tag, entries[j].Tag) < 0
	})
	sort.SliceStable(tags, func(i, j int) bool {
		return col.CompareString(tags[i], tags[j]) < 0
	})
	if tags == nil {
		tags = []string{}
	}
	return entries, tags
}

// GetLotInventory groups active lot stock per product and display unit.
func (s *Service) GetLotInventory(ctx context.Context, filter LotInventoryFilter) (report *LotInventoryReport, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "reports.lot_inventory", trace.WithAttributes(
		attribute.String("report.system", filter.SystemCode),
		attribute.Bool("report.target_unit", filter.TargetUnitID != nil),
	))
	defer func() { finishSpan(ctx, span, "lot_inventory", started, err) }()

	if err := requireSystemCode(filter.SystemCode); err != nil {
		return nil, err
	}

	var groups []lots.ProductGroup
	err = s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		ref, err := s.loadReference(ctx)
		if err != nil {
			return err
		}
		target, err := ref.target(filter.TargetUnitID)
		if err != nil {
			return err
		}

		lotList, err := s.repo.ListLots(ctx, LotFilter{
			SystemCode: filter.SystemCode,
			Warehouse:  NormalizeWarehouse(filter.Warehouse),
			Status:     lots.StatusActive,
		})
		if err != nil {
			return apperror.NewDatabase(SourceLots, err)
		}

		groups = lots.NewCalculator(ref.index, ref.resolver).Group(lots.Records(lotList), lots.GroupOptions{
			Target:   target,
			Search:   filter.Search,
			Language: s.settings.Language,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	report = &LotInventoryReport{Items: groups, TotalItems: len(groups)}
	for _, g := range groups {
		if g.IsUnconvertible {
			report.UnconvertibleItems++
		}
	}
	span.SetAttributes(attribute.Int("report.rows", report.TotalItems))
	return report, nil
}

// GetReconciliation compares the order ledger with physical lots per product.
func (s *Service) GetReconciliation(ctx context.Context, filter ReconciliationFilter) (report *ReconciliationReport, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "reports.reconciliation", trace.WithAttributes(
		attribute.String("report.system", filter.SystemCode),
		attribute.Bool("report.only_diff", filter.OnlyDiff),
	))
	defer func() { finishSpan(ctx, span, "reconciliation", started, err) }()

	if err := requireSystemCode(filter.SystemCode); err != nil {
		return nil, err
	}
	asOf := s.now().In(s.settings.Location)
	if filter.AsOf != nil {
		asOf = filter.AsOf.In(s.settings.Location)
	}
	predicate, err := CompileReconciliationPredicate(filter.Where)
	if err != nil {
		return nil, err
	}

	warehouse := NormalizeWarehouse(filter.Warehouse)
	window := ledger.NewWindow(nil, asOf)

	var rows []reconcile.Row
	err = s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		ref, err := s.loadReference(ctx)
		if err != nil {
			return err
		}
		inbound, outbound, err := s.loadLines(ctx, LineFilter{
			SystemCode: filter.SystemCode,
			Warehouse:  warehouse,
			Status:     ledger.StatusCompleted,
			Until:      window.Until,
		})
		if err != nil {
			return err
		}
		lotList, err := s.repo.ListLots(ctx, LotFilter{
			SystemCode: filter.SystemCode,
			Warehouse:  warehouse,
			Status:     lots.StatusActive,
		})
		if err != nil {
			return apperror.NewDatabase(SourceLots, err)
		}

		ledgerRows := ledger.NewAggregator(ref.index, ref.resolver).
			Aggregate(inbound, outbound, window, ledger.Options{Language: s.settings.Language})
		accounting := ledger.ProductBalances(ledgerRows, ref.index, ref.resolver)

		calc := lots.NewCalculator(ref.index, ref.resolver)
		physical := calc.Balances(lots.Records(lotList))
		pending, malformed := calc.Pending(lotList)
		if len(malformed) > 0 {
			logger.Warn(ctx, "lot history skipped", "lots", len(malformed), "first", malformed[0])
		}

		rows = reconcile.Compare(accounting, physical)
		reconcile.ApplyPending(rows, pending)
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := reconcile.Summarize(rows)
	if filter.OnlyDiff {
		rows = reconcile.OnlyDiff(rows)
	}
	items := make([]reconcile.Row, 0, len(rows))
	for _, r := range rows {
		if predicate.MatchReconciliation(r) {
			items = append(items, r)
		}
	}

	report = &ReconciliationReport{AsOf: asOf, Items: items, Summary: summary}
	span.SetAttributes(attribute.Int("report.rows", len(items)))
	return report, nil
}
