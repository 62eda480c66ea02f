package holdings

import (
	"errors"

	peersvc "fundmanager-backend/internal/application/peers"
	"fundmanager-backend/internal/domain"
	"fundmanager-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *peersvc.Service
}

// FindPeers POST /api/portfolios/:portfolioId/holdings/:holdingId/find-peers
func (h *Handlers) FindPeers(c *fiber.Ctx) error {
	portfolioID, holdingID, err := parseIDs(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}

	result, err := h.Service.FindPeers(c.Context(), portfolioID, holdingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHoldingNotFound):
			return response.Error(c, err.Error(), 404, nil)
		case errors.Is(err, domain.ErrHoldingNotAnalyzed):
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, err.Error(), 500, nil)
		}
	}

	return response.Success(c, "Peer recommendations updated", fiber.Map{
		"original_holding": fiber.Map{
			"ticker":       result.Holding.Ticker,
			"sector":       result.Holding.Sector,
			"market_cap":   result.Holding.MarketCap,
			"co2_emission": result.Holding.CO2Emission,
		},
		"peer_recommendations": result.Recommendations,
		"count":                len(result.Recommendations),
	}, nil)
}

// Replace POST /api/portfolios/:portfolioId/holdings/:holdingId/replace
func (h *Handlers) Replace(c *fiber.Ctx) error {
	portfolioID, holdingID, err := parseIDs(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}

	var body struct {
		PeerTicker string `json:"peer_ticker"`
	}
	if err := c.BodyParser(&body); err != nil || body.PeerTicker == "" {
		return response.Error(c, "peer_ticker is required", 400, nil)
	}

	result, err := h.Service.Replace(c.Context(), portfolioID, holdingID, body.PeerTicker)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHoldingNotFound), errors.Is(err, domain.ErrPeerNotFound):
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, err.Error(), 500, nil)
		}
	}

	return response.Success(c, "Holding replaced successfully", result, nil)
}

func parseIDs(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	portfolioID, err := uuid.Parse(c.Params("portfolioId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("Invalid UUID format for portfolio id")
	}
	holdingID, err := uuid.Parse(c.Params("holdingId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("Invalid UUID format for holding id")
	}
	return portfolioID, holdingID, nil
}
