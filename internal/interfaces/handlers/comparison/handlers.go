package comparison

import (
	cmpsvc "fundmanager-backend/internal/application/comparison"
	"fundmanager-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *cmpsvc.Service
}

// CompanyComparison GET /api/comparison/company-comparison?base_company=Shell
func (h *Handlers) CompanyComparison(c *fiber.Ctx) error {
	baseCompany := c.Query("base_company")
	if baseCompany == "" {
		return response.Error(c, "Missing base_company query parameter", 400, nil)
	}

	report, err := h.Service.Compare(c.Context(), baseCompany)
	if err != nil {
		return response.Error(c, err.Error(), 500, nil)
	}
	return response.Success(c, "Comparison complete", report, nil)
}
