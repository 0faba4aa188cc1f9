package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/application/ledger"
)

// StockHandler serves stock items.
type StockHandler struct {
	svc *ledger.Service
}

func NewStockHandler(svc *ledger.Service) *StockHandler {
	return &StockHandler{svc: svc}
}

// List godoc
// @Summary      Active stocks, newest first
// @Tags         stocks
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.StockResponse]
// @Router       /api/stocks [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.GetStocks(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// Create godoc
// @Summary      Create a stock item
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequest  true  "Stock"
// @Success      201   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/stocks [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.CreateStock(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Update a stock item
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "Stock ID"
// @Param        body  body  dto.UpdateStockRequest  true  "Stock"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stocks/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	in.ID = c.Params("id")
	out, err := h.svc.UpdateStock(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Stock totals
// @Tags         stocks
// @Produce      json
// @Success      200  {object}  dto.StockSummaryResponse
// @Router       /api/stocks/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	out, err := h.svc.StockSummary(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
