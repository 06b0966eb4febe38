package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// RegisterSale registers a new sale with its lines
// POST /api/v1/sales
func (h *SaleHandler) RegisterSale(c *fiber.Ctx) error {
	var req service.RegisterSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.RegisterSale(getActor(c), &req)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale registered", "data": sale})
}

// GetSales lists all sales
// GET /api/v1/sales
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.GetAllSales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

// GetSale returns one sale with its lines
// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSale(saleID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}
	return c.JSON(sale)
}

// UpdateSaleLine changes a line quantity
// PUT /api/v1/sales/:id/lines/:lineId
func (h *SaleHandler) UpdateSaleLine(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	lineID, err := parseUUID(c.Params("lineId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid line ID"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.UpdateSaleLine(getActor(c), saleID, lineID, req.Quantity)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Sale line updated", "data": sale})
}

// DeleteSaleLine removes a line, restoring its stock
// DELETE /api/v1/sales/:id/lines/:lineId
func (h *SaleHandler) DeleteSaleLine(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	lineID, err := parseUUID(c.Params("lineId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid line ID"})
	}

	sale, err := h.service.DeleteSaleLine(getActor(c), saleID, lineID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Sale line deleted", "data": sale})
}

// DeleteSale removes a sale and restores all line stock
// DELETE /api/v1/sales/:id
func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	if err := h.service.DeleteSale(getActor(c), saleID); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Sale deleted"})
}

// GetMySales lists the acting customer's own purchases
// GET /api/v1/my/sales
func (h *SaleHandler) GetMySales(c *fiber.Ctx) error {
	sales, err := h.service.SalesForCustomerUser(getActor(c))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sales)
}

// GetMySale returns one of the acting customer's own purchases
// GET /api/v1/my/sales/:id
func (h *SaleHandler) GetMySale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.SaleForCustomerUser(getActor(c), saleID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sale)
}
