package portfolios

import (
	"errors"

	portfoliosvc "fundmanager-backend/internal/application/portfolios"
	"fundmanager-backend/internal/domain"
	"fundmanager-backend/internal/pkg/response"
	"fundmanager-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *portfoliosvc.Service
}

// Upload POST /api/portfolios/upload — multipart CSV (file + name) or JSON body.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	name, ownerID, rows, err := parseUpload(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	if name == "" {
		return response.Error(c, "Portfolio name is required", 400, nil)
	}
	for _, row := range rows {
		if !validation.IsValidTicker(row.Ticker) {
			return response.Error(c, "Invalid ticker: "+row.Ticker, 400, nil)
		}
	}

	portfolio, err := h.Service.Upload(c.Context(), name, ownerID, rows)
	if err != nil {
		var verr portfoliosvc.ValidationError
		if errors.As(err, &verr) {
			return response.Error(c, verr.Error(), 400, nil)
		}
		return response.Error(c, err.Error(), 500, nil)
	}
	return response.SuccessCreated(c, "Portfolio uploaded successfully", portfolio, nil)
}

func parseUpload(c *fiber.Ctx) (string, *string, []portfoliosvc.HoldingInput, error) {
	if file, err := c.FormFile("file"); err == nil {
		name := c.FormValue("name")
		var ownerID *string
		if owner := c.FormValue("owner_id"); owner != "" {
			ownerID = &owner
		}
		f, err := file.Open()
		if err != nil {
			return "", nil, nil, err
		}
		defer f.Close()
		rows, err := portfoliosvc.ParseCSV(f)
		if err != nil {
			return "", nil, nil, err
		}
		return name, ownerID, rows, nil
	}

	var body struct {
		Name     string                      `json:"name"`
		OwnerID  *string                     `json:"owner_id"`
		Holdings []portfoliosvc.HoldingInput `json:"holdings"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Holdings) == 0 {
		return "", nil, nil, errors.New("No file uploaded")
	}
	return body.Name, body.OwnerID, body.Holdings, nil
}

// List GET /api/portfolios
func (h *Handlers) List(c *fiber.Ctx) error {
	portfolios, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, err.Error(), 500, nil)
	}
	return response.Success(c, "Portfolios retrieved", portfolios, nil)
}

// Get GET /api/portfolios/:id — holdings ordered by descending weight.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for portfolio id", 400, nil)
	}
	portfolio, err := h.Service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPortfolioNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, err.Error(), 500, nil)
	}
	return response.Success(c, "Portfolio retrieved", portfolio, nil)
}

// Delete DELETE /api/portfolios/:id — cascades to holdings and recommendations.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for portfolio id", 400, nil)
	}
	if err := h.Service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrPortfolioNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, err.Error(), 500, nil)
	}
	return response.Success(c, "Portfolio deleted", fiber.Map{"id": id}, nil)
}

// Analyse POST /api/portfolios/:id/analyse — enriches every holding.
func (h *Handlers) Analyse(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for portfolio id", 400, nil)
	}
	enriched, err := h.Service.Analyse(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPortfolioNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, err.Error(), 500, nil)
	}
	return response.Success(c, "Portfolio analysis complete", fiber.Map{
		"holdings_enriched": enriched,
	}, nil)
}
