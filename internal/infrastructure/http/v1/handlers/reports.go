package handlers

import (
	"github.com/gin-gonic/gin"

	"warehub/internal/core/apperror"
	"warehub/internal/core/id"
	"warehub/internal/domain/reports"
	"warehub/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetInventory handles GET /reports/inventory
func (h *ReportsHandler) GetInventory(c *gin.Context) {
	var req dto.InventoryReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	from, err := h.ParseDate("dateFrom", req.DateFrom)
	if err != nil {
		h.Error(c, err)
		return
	}
	to, err := h.ParseDate("dateTo", req.DateTo)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetLedger(c.Request.Context(), reports.LedgerFilter{
		SystemCode:  h.GetSystemCode(c),
		Warehouse:   req.Warehouse,
		From:        from,
		To:          to,
		Search:      req.Search,
		ConvertToKg: req.ConvertToKg,
		Where:       req.Where,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLedgerReport(report))
}

// GetInventoryByTag handles GET /reports/inventory/by-tag
func (h *ReportsHandler) GetInventoryByTag(c *gin.Context) {
	var req dto.TagReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	targetUnitID, err := id.ParseOptional(req.TargetUnitID)
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("targetUnitId", "expected a unit id").
			WithDetail("value", req.TargetUnitID))
		return
	}

	report, err := h.service.GetTagHierarchy(c.Request.Context(), reports.TagFilter{
		SystemCode:   h.GetSystemCode(c),
		Warehouse:    req.Warehouse,
		Tag:          req.Tag,
		TargetUnitID: targetUnitID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTagReport(report))
}

// GetInventoryByLot handles GET /reports/inventory/by-lot
func (h *ReportsHandler) GetInventoryByLot(c *gin.Context) {
	var req dto.LotInventoryRequest
	if !h.BindQuery(c, &req) {
		return
	}

	targetUnitID, err := id.ParseOptional(req.TargetUnitID)
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("targetUnitId", "expected a unit id").
			WithDetail("value", req.TargetUnitID))
		return
	}

	report, err := h.service.GetLotInventory(c.Request.Context(), reports.LotInventoryFilter{
		SystemCode:   h.GetSystemCode(c),
		Warehouse:    req.Warehouse,
		Search:       req.Search,
		TargetUnitID: targetUnitID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLotInventoryReport(report))
}

// GetReconciliation handles GET /reports/inventory/reconciliation
func (h *ReportsHandler) GetReconciliation(c *gin.Context) {
	var req dto.ReconciliationReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	asOf, err := h.ParseDate("asOf", req.AsOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetReconciliation(c.Request.Context(), reports.ReconciliationFilter{
		SystemCode: h.GetSystemCode(c),
		Warehouse:  req.Warehouse,
		AsOf:       asOf,
		OnlyDiff:   req.OnlyDiff,
		Where:      req.Where,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReconciliationReport(report))
}
