package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/application/ledger"
)

// BusinessHandler serves the user's business.
type BusinessHandler struct {
	svc *ledger.Service
}

func NewBusinessHandler(svc *ledger.Service) *BusinessHandler {
	return &BusinessHandler{svc: svc}
}

// Get godoc
// @Summary      Current business (never creates one)
// @Tags         business
// @Produce      json
// @Success      200  {object}  dto.BusinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business [get]
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.GetBusiness(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no business yet"})
	}
	return c.JSON(out)
}

// Ensure godoc
// @Summary      Get or create the business
// @Tags         business
// @Produce      json
// @Success      200  {object}  dto.BusinessResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/business [post]
func (h *BusinessHandler) Ensure(c *fiber.Ctx) error {
	out, err := h.svc.SetBusiness(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
