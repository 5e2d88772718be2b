package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codyseavey/poke-finder/backend/internal/models"
	"github.com/codyseavey/poke-finder/backend/internal/services"
)

const (
	msgPokemonNotFound = "Pokémon not found"
	msgNoNearbyPokemon = "No Pokémon found with similar height and weight"
)

// Finder is the lookup surface the handlers need.
type Finder interface {
	ResolveName(ctx context.Context, name string) (*models.NameLookup, error)
	FindByName(ctx context.Context, name string) (*models.PokemonRecord, error)
	FindByBody(ctx context.Context, q models.ToleranceQuery) (models.BodyMatch, error)
}

type PokemonHandler struct {
	finder Finder
	logger *zap.SugaredLogger
}

func NewPokemonHandler(finder Finder, logger *zap.SugaredLogger) *PokemonHandler {
	return &PokemonHandler{
		finder: finder,
		logger: logger,
	}
}

// GetPokemon resolves a name to its localized name and type
func (h *PokemonHandler) GetPokemon(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'name' is required"})
		return
	}

	lookup, err := h.finder.ResolveName(c.Request.Context(), name)
	if err != nil {
		h.logger.Errorf("Failed to resolve pokemon %q: %v", name, err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if lookup == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgPokemonNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": lookup.LocalizedName,
		"type": lookup.Type,
	})
}

type nearbyQuery struct {
	Height    *float64 `form:"height" binding:"required"`
	Weight    *float64 `form:"weight" binding:"required"`
	Tolerance *float64 `form:"tolerance"`
}

// GetNearbyPokemon lists pokemon with a height and weight close to the query
func (h *PokemonHandler) GetNearbyPokemon(c *gin.Context) {
	var params nearbyQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameters 'height' and 'weight' must be numbers"})
		return
	}

	tolerance := models.DefaultTolerance
	if params.Tolerance != nil {
		tolerance = *params.Tolerance
	}

	q, err := models.NewToleranceQuery(*params.Height, *params.Weight, tolerance)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match, err := h.finder.FindByBody(c.Request.Context(), q)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if match.Empty() {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNoNearbyPokemon})
		return
	}

	c.JSON(http.StatusOK, match)
}

func statusFor(err error) int {
	switch services.Classify(err) {
	case models.OutcomeNotFound:
		return http.StatusNotFound
	case models.OutcomeInvalid:
		return http.StatusBadRequest
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
