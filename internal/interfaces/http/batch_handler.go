package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/lotes-api/internal/application/dto"
	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// BatchHandler maneja el ciclo de vida de lotes y las consultas de stock
// (protegido).
type BatchHandler struct {
	lifecycle  *appinventory.BatchLifecycleUseCase
	aggregator *appinventory.StockAggregator
}

// NewBatchHandler construye el handler.
func NewBatchHandler(lifecycle *appinventory.BatchLifecycleUseCase, aggregator *appinventory.StockAggregator) *BatchHandler {
	return &BatchHandler{lifecycle: lifecycle, aggregator: aggregator}
}

// mapBatchError traduce los errores tipados del motor de lotes a estados HTTP.
// El mensaje de negocio viaja tal cual en el cuerpo.
func mapBatchError(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.IsNotFoundError(err):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case domain.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:              b.ID,
		ProductID:       b.ProductID,
		ProductionDate:  b.ProductionDate,
		ExpirationDate:  b.ExpirationDate,
		InitialQuantity: b.InitialQuantity,
		CurrentQuantity: b.CurrentQuantity,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBatchResponses(batches []*entity.Batch) []dto.BatchResponse {
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return out
}

func toMovementResponses(movements []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:        m.ID,
			BatchID:   m.BatchID,
			ProductID: m.ProductID,
			Delta:     m.Delta,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

// Create godoc
// @Summary      Crear lote
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "product_id, production_date, initial_quantity"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	batch, err := h.lifecycle.CreateBatch(c.Context(), in)
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(batch))
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	batch, err := h.lifecycle.GetBatch(c.Context(), id)
	if err != nil {
		return mapBatchError(c, err)
	}
	if batch == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
	}
	return c.JSON(toBatchResponse(batch))
}

// ActiveByProduct godoc
// @Summary      Lotes activos de un producto (FIFO, el más viejo primero)
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/products/{id}/batches/active [get]
func (h *BatchHandler) ActiveByProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	batches, err := h.lifecycle.GetActiveBatchesByProduct(c.Context(), productID)
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.JSON(toBatchResponses(batches))
}

// TotalStock godoc
// @Summary      Stock total de un producto (suma de lotes ACTIVE)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  map[string]any
// @Router       /api/products/{id}/stock [get]
func (h *BatchHandler) TotalStock(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	total, err := h.aggregator.TotalStockByProduct(c.Context(), productID)
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "total_stock": total})
}

// StockSummary godoc
// @Summary      Resumen de stock de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockSummaryResponse
// @Router       /api/products/{id}/stock/summary [get]
func (h *BatchHandler) StockSummary(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	summary, err := h.aggregator.StockSummaryByProduct(c.Context(), productID)
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.JSON(summary)
}

// UpdateQuantity godoc
// @Summary      Aplicar delta de cantidad a un lote
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.UpdateQuantityRequest  true  "delta firmado, reason opcional"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/quantity [patch]
func (h *BatchHandler) UpdateQuantity(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batch, err := h.lifecycle.UpdateBatchQuantity(c.Context(), id, in)
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.JSON(toBatchResponse(batch))
}

// Deplete godoc
// @Summary      Agotar un lote (cantidad a cero, estado DEPLETED)
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.ReasonRequest  false  "reason opcional"
// @Success      200   {object}  dto.BatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/deplete [post]
func (h *BatchHandler) Deplete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ReasonRequest
	// Body opcional: sin cuerpo se usa el motivo por defecto.
	_ = c.BodyParser(&in)
	reason := in.Reason
	if reason == "" {
		reason = "batch depleted"
	}
	batch, err := h.lifecycle.MarkBatchAsDepleted(c.Context(), id, reason)
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.JSON(toBatchResponse(batch))
}

// OutOfStock godoc
// @Summary      Agotar todos los lotes activos de un producto
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ReasonRequest  false  "reason opcional"
// @Success      200   {array}  dto.BatchOutcome
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/out-of-stock [post]
func (h *BatchHandler) OutOfStock(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ReasonRequest
	_ = c.BodyParser(&in)
	reason := in.Reason
	if reason == "" {
		reason = "product out of stock"
	}
	outcomes, err := h.lifecycle.MarkProductAsOutOfStock(c.Context(), productID, reason)
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.JSON(outcomes)
}

// RefreshStatus godoc
// @Summary      Recalcular el estado de un lote contra el reloj
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/refresh-status [post]
func (h *BatchHandler) RefreshStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	batch, err := h.lifecycle.RefreshBatchStatus(c.Context(), id)
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.JSON(toBatchResponse(batch))
}

// RefreshAllStatuses godoc
// @Summary      Recalcular el estado de todos los lotes activos
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BatchOutcome
// @Router       /api/batches/refresh-statuses [post]
func (h *BatchHandler) RefreshAllStatuses(c *fiber.Ctx) error {
	outcomes, err := h.lifecycle.RefreshAllBatchStatuses(c.Context())
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.JSON(outcomes)
}

// History godoc
// @Summary      Historial de movimientos por lote o por producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Param        batch_id    query  string  false  "ID del lote"
// @Success      200  {array}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/history [get]
func (h *BatchHandler) History(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	batchID := c.Query("batch_id")
	movements, err := h.lifecycle.GetBatchHistory(c.Context(), productID, batchID)
	if err != nil {
		return mapBatchError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

// Delete godoc
// @Summary      Eliminar un lote (solo DEPLETED o EXPIRED)
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.ReasonRequest  false  "reason opcional"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ReasonRequest
	_ = c.BodyParser(&in)
	if err := h.lifecycle.DeleteBatch(c.Context(), id, in.Reason); err != nil {
		return mapBatchError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
