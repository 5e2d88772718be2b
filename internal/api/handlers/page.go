package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codyseavey/poke-finder/backend/internal/models"
)

const msgNoMatch = "查無寶可夢"

type PageHandler struct {
	finder Finder
	logger *zap.SugaredLogger
}

func NewPageHandler(finder Finder, logger *zap.SugaredLogger) *PageHandler {
	return &PageHandler{
		finder: finder,
		logger: logger,
	}
}

// Index renders the search page. Both lookups run when their parameters are
// present; failures become a message on the page instead of an error status.
func (h *PageHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	name := strings.TrimSpace(c.Query("name"))
	heightStr := strings.TrimSpace(c.Query("height"))
	weightStr := strings.TrimSpace(c.Query("weight"))
	toleranceStr := strings.TrimSpace(c.Query("tolerance"))

	data := gin.H{
		"name":      name,
		"height":    heightStr,
		"weight":    weightStr,
		"tolerance": toleranceStr,
	}
	if toleranceStr == "" {
		data["tolerance"] = strconv.FormatFloat(models.DefaultTolerance, 'f', -1, 64)
	}

	var messages []string

	if name != "" {
		record, err := h.finder.FindByName(ctx, name)
		if err != nil {
			h.logger.Errorf("Failed to look up pokemon %q: %v", name, err)
			messages = append(messages, fmt.Sprintf("Failed to fetch Pokémon details: %v", err))
		} else if record != nil {
			data["pokemon_data"] = record
		}
	}

	if heightStr != "" && weightStr != "" {
		match, err := h.findByBody(c, heightStr, weightStr, toleranceStr)
		switch {
		case err != nil:
			messages = append(messages, fmt.Sprintf("Failed to fetch Pokémon details: %v", err))
		case match.Empty():
			messages = append(messages, msgNoMatch)
		default:
			data["nearby_pokemon"] = match.Candidates
			data["random_pokemon"] = match.Highlighted
			data["tolerance_used"] = match.ToleranceUsed
		}
	}

	if len(messages) > 0 {
		data["error_message"] = strings.Join(messages, "；")
	}

	c.HTML(http.StatusOK, "index.html", data)
}

func (h *PageHandler) findByBody(c *gin.Context, heightStr, weightStr, toleranceStr string) (models.BodyMatch, error) {
	height, err := strconv.ParseFloat(heightStr, 64)
	if err != nil {
		return models.BodyMatch{}, fmt.Errorf("invalid height %q", heightStr)
	}
	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil {
		return models.BodyMatch{}, fmt.Errorf("invalid weight %q", weightStr)
	}
	tolerance := models.DefaultTolerance
	if toleranceStr != "" {
		if tolerance, err = strconv.ParseFloat(toleranceStr, 64); err != nil {
			return models.BodyMatch{}, fmt.Errorf("invalid tolerance %q", toleranceStr)
		}
	}

	q, err := models.NewToleranceQuery(height, weight, tolerance)
	if err != nil {
		return models.BodyMatch{}, err
	}
	return h.finder.FindByBody(c.Request.Context(), q)
}
