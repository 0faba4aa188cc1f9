package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/khata/internal/application/dto"
	"github.com/jhoicas/khata/internal/application/ledger"
)

// CustomerSupplierHandler serves customers and suppliers ("parties").
type CustomerSupplierHandler struct {
	svc *ledger.Service
}

func NewCustomerSupplierHandler(svc *ledger.Service) *CustomerSupplierHandler {
	return &CustomerSupplierHandler{svc: svc}
}

// List godoc
// @Summary      Active customers and suppliers
// @Tags         parties
// @Produce      json
// @Param        type  query  string  false  "customer or supplier"
// @Success      200   {object}  dto.ListResponse[dto.CustomerSupplierResponse]
// @Router       /api/parties [get]
func (h *CustomerSupplierHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.GetCustomerSuppliers(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	if t := c.Query("type"); t != "" {
		filtered := make([]dto.CustomerSupplierResponse, 0, len(out))
		for _, p := range out {
			if p.PartyType == t {
				filtered = append(filtered, p)
			}
		}
		out = filtered
	}
	return c.JSON(dto.NewList(out))
}

// Create godoc
// @Summary      Create a customer or supplier
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerSupplierRequest  true  "Party"
// @Success      201   {object}  dto.CustomerSupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/parties [post]
func (h *CustomerSupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.CreateCustomerSupplier(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Update a customer or supplier
// @Description  description, record_date and avatar_url are only changed when present in the body.
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        id    path  string                             true  "Party ID"
// @Param        body  body  dto.UpdateCustomerSupplierRequest  true  "Party"
// @Success      200   {object}  dto.CustomerSupplierResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parties/{id} [put]
func (h *CustomerSupplierHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	in.ID = c.Params("id")
	out, err := h.svc.UpdateCustomerSupplier(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Soft-delete a customer or supplier
// @Tags         parties
// @Param        id   path  string  true  "Party ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parties/{id} [delete]
func (h *CustomerSupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteCustomerSupplier(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
