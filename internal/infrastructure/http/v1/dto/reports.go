package dto

import (
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/reconcile"
	"warehub/internal/domain/reports"
	"warehub/internal/domain/tagtree"
)

// --- Inventory ledger report ---

// InventoryReportRequest represents request for the inventory ledger report.
// systemType is resolved by middleware.System.
type InventoryReportRequest struct {
	Warehouse   string `form:"warehouse"`
	DateFrom    string `form:"dateFrom"`
	DateTo      string `form:"dateTo"`
	Search      string `form:"q"`
	ConvertToKg bool   `form:"convertToKg"`
	Where       string `form:"where"`
}

// InventoryReportResponse represents inventory ledger report response.
type InventoryReportResponse struct {
	Items              []InventoryReportItemResponse `json:"items"`
	TotalItems         int                           `json:"totalItems"`
	UnconvertibleItems int                           `json:"unconvertibleItems"`
}

// InventoryReportItemResponse represents one ledger row.
type InventoryReportItemResponse struct {
	ProductID       string  `json:"productId"`
	ProductCode     string  `json:"productCode"`
	ProductName     string  `json:"productName"`
	Warehouse       string  `json:"warehouse"`
	Unit            string  `json:"unit"`
	Opening         float64 `json:"opening"`
	QtyIn           float64 `json:"qtyIn"`
	QtyOut          float64 `json:"qtyOut"`
	Balance         float64 `json:"balance"`
	IsUnconvertible bool    `json:"isUnconvertible"`
}

// FromLedgerReport converts domain report to response DTO.
func FromLedgerReport(r *reports.LedgerReport) *InventoryReportResponse {
	resp := &InventoryReportResponse{
		Items:              make([]InventoryReportItemResponse, len(r.Items)),
		TotalItems:         r.TotalItems,
		UnconvertibleItems: r.UnconvertibleItems,
	}
	for i, row := range r.Items {
		resp.Items[i] = fromBalanceRow(row)
	}
	return resp
}

func fromBalanceRow(row ledger.BalanceRow) InventoryReportItemResponse {
	return InventoryReportItemResponse{
		ProductID:       row.ProductID.String(),
		ProductCode:     row.ProductCode,
		ProductName:     row.ProductName,
		Warehouse:       row.Warehouse,
		Unit:            row.Unit,
		Opening:         num(row.Opening),
		QtyIn:           num(row.QtyIn),
		QtyOut:          num(row.QtyOut),
		Balance:         num(row.Balance),
		IsUnconvertible: row.IsUnconvertible,
	}
}

// --- Tag hierarchy report ---

// TagReportRequest represents request for the by-tag report.
type TagReportRequest struct {
	Warehouse    string `form:"warehouse"`
	Tag          string `form:"tag"`
	TargetUnitID string `form:"targetUnitId"`
}

// TagReportResponse represents the tag hierarchy response.
type TagReportResponse struct {
	Items      []TagNodeResponse `json:"items"`
	UniqueTags []string          `json:"uniqueTags"`
}

// TagNodeResponse represents one node of the hierarchy.
type TagNodeResponse struct {
	Name          string               `json:"name"`
	FullPath      string               `json:"fullPath"`
	TotalQuantity float64              `json:"totalQuantity"`
	Unit          string               `json:"unit"`
	IsProduct     bool                 `json:"isProduct"`
	Products      []TagProductResponse `json:"products"`
	Children      []TagNodeResponse    `json:"children"`
}

// TagProductResponse is a product quantity attached to a node.
type TagProductResponse struct {
	ProductID       string   `json:"productId"`
	ProductCode     string   `json:"productCode"`
	ProductName     string   `json:"productName"`
	Quantity        float64  `json:"quantity"`
	Unit            string   `json:"unit"`
	LotCount        int      `json:"lotCount"`
	LotCodes        []string `json:"lotCodes"`
	IsUnconvertible bool     `json:"isUnconvertible"`
}

// FromTagReport converts domain report to response DTO.
func FromTagReport(r *reports.TagReport) *TagReportResponse {
	resp := &TagReportResponse{
		Items:      fromNodes(r.Items),
		UniqueTags: r.UniqueTags,
	}
	if resp.UniqueTags == nil {
		resp.UniqueTags = []string{}
	}
	return resp
}

func fromNodes(nodes []*tagtree.Node) []TagNodeResponse {
	out := make([]TagNodeResponse, len(nodes))
	for i, n := range nodes {
		products := make([]TagProductResponse, len(n.Products))
		for j, p := range n.Products {
			codes := p.LotCodes
			if codes == nil {
				codes = []string{}
			}
			products[j] = TagProductResponse{
				ProductID:       p.ProductID.String(),
				ProductCode:     p.ProductCode,
				ProductName:     p.ProductName,
				Quantity:        num(p.Quantity),
				Unit:            p.Unit,
				LotCount:        len(codes),
				LotCodes:        codes,
				IsUnconvertible: p.IsUnconvertible,
			}
		}
		out[i] = TagNodeResponse{
			Name:          n.Name,
			FullPath:      n.FullPath,
			TotalQuantity: num(n.TotalQuantity),
			Unit:          n.Unit,
			IsProduct:     n.IsProduct,
			Products:      products,
			Children:      fromNodes(n.Children),
		}
	}
	return out
}

// --- Lot inventory report ---

// LotInventoryRequest represents request for the by-lot report.
type LotInventoryRequest struct {
	Warehouse    string `form:"warehouse"`
	Search       string `form:"q"`
	TargetUnitID string `form:"targetUnitId"`
}

// LotInventoryResponse represents the by-lot report response.
type LotInventoryResponse struct {
	Items              []LotInventoryItemResponse `json:"items"`
	TotalItems         int                        `json:"totalItems"`
	UnconvertibleItems int                        `json:"unconvertibleItems"`
}

// LotInventoryItemResponse represents one product group.
type LotInventoryItemResponse struct {
	ProductID       string               `json:"productId"`
	ProductCode     string               `json:"productCode"`
	ProductName     string               `json:"productName"`
	Unit            string               `json:"unit"`
	TotalQuantity   float64              `json:"totalQuantity"`
	IsUnconvertible bool                 `json:"isUnconvertible"`
	LotCount        int                  `json:"lotCount"`
	LotCodes        []string             `json:"lotCodes"`
	Positions       []string             `json:"positions"`
	Variants        []LotVariantResponse `json:"variants"`
}

// LotVariantResponse is the quantity under one tag combination.
type LotVariantResponse struct {
	Tags     string  `json:"tags"`
	Quantity float64 `json:"quantity"`
}

// FromLotInventoryReport converts domain report to response DTO.
func FromLotInventoryReport(r *reports.LotInventoryReport) *LotInventoryResponse {
	resp := &LotInventoryResponse{
		Items:              make([]LotInventoryItemResponse, len(r.Items)),
		TotalItems:         r.TotalItems,
		UnconvertibleItems: r.UnconvertibleItems,
	}
	for i, g := range r.Items {
		variants := make([]LotVariantResponse, len(g.Variants))
		for j, v := range g.Variants {
			variants[j] = LotVariantResponse{Tags: v.Tags, Quantity: num(v.Quantity)}
		}
		resp.Items[i] = LotInventoryItemResponse{
			ProductID:       g.ProductID.String(),
			ProductCode:     g.ProductCode,
			ProductName:     g.ProductName,
			Unit:            g.Unit,
			TotalQuantity:   num(g.TotalQuantity),
			IsUnconvertible: g.IsUnconvertible,
			LotCount:        len(g.LotCodes),
			LotCodes:        nonNil(g.LotCodes),
			Positions:       nonNil(g.Positions),
			Variants:        variants,
		}
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// --- Reconciliation report ---

// ReconciliationReportRequest represents request for the reconciliation report.
type ReconciliationReportRequest struct {
	Warehouse string `form:"warehouse"`
	AsOf      string `form:"asOf"`
	OnlyDiff  bool   `form:"onlyDiff"`
	Where     string `form:"where"`
}

// ReconciliationReportResponse represents the reconciliation response.
type ReconciliationReportResponse struct {
	AsOf    string                      `json:"asOf"`
	Items   []ReconciliationRowResponse `json:"items"`
	Summary ReconciliationSummary       `json:"summary"`
}

// ReconciliationRowResponse represents one compared product.
type ReconciliationRowResponse struct {
	ProductID         string  `json:"productId"`
	ProductCode       string  `json:"productCode"`
	ProductName       string  `json:"productName"`
	Unit              string  `json:"unit"`
	AccountingBalance float64 `json:"accountingBalance"`
	LotBalance        float64 `json:"lotBalance"`
	Diff              float64 `json:"diff"`
	PendingInbound    float64 `json:"pendingInbound"`
	PendingExport     float64 `json:"pendingExport"`
	UnexplainedDiff   float64 `json:"unexplainedDiff"`
	IsUnconvertible   bool    `json:"isUnconvertible"`
	Presence          string  `json:"presence"`
}

// ReconciliationSummary counts rows by outcome.
type ReconciliationSummary struct {
	Total          int `json:"total"`
	Matched        int `json:"matched"`
	WithDiff       int `json:"withDiff"`
	OnlyAccounting int `json:"onlyAccounting"`
	OnlyLot        int `json:"onlyLot"`
	Unconvertible  int `json:"unconvertible"`
}

// FromReconciliationReport converts domain report to response DTO.
func FromReconciliationReport(r *reports.ReconciliationReport) *ReconciliationReportResponse {
	resp := &ReconciliationReportResponse{
		AsOf:  FormatDate(r.AsOf),
		Items: make([]ReconciliationRowResponse, len(r.Items)),
		Summary: ReconciliationSummary{
			Total:          r.Summary.Total,
			Matched:        r.Summary.Matched,
			WithDiff:       r.Summary.WithDiff,
			OnlyAccounting: r.Summary.OnlyAccounting,
			OnlyLot:        r.Summary.OnlyLot,
			Unconvertible:  r.Summary.Unconvertible,
		},
	}
	for i, row := range r.Items {
		resp.Items[i] = fromReconciliationRow(row)
	}
	return resp
}

func fromReconciliationRow(row reconcile.Row) ReconciliationRowResponse {
	return ReconciliationRowResponse{
		ProductID:         row.ProductID.String(),
		ProductCode:       row.ProductCode,
		ProductName:       row.ProductName,
		Unit:              row.Unit,
		AccountingBalance: num(row.AccountingBalance),
		LotBalance:        num(row.LotBalance),
		Diff:              num(row.Diff),
		PendingInbound:    num(row.PendingInbound),
		PendingExport:     num(row.PendingExport),
		UnexplainedDiff:   num(row.UnexplainedDiff),
		IsUnconvertible:   row.IsUnconvertible,
		Presence:          string(row.Presence),
	}
}
