// Package app wires configuration into the finder shared by the server and the CLI.
package app

import (
	"go.uber.org/zap"

	"github.com/codyseavey/poke-finder/backend/internal/config"
	"github.com/codyseavey/poke-finder/backend/internal/services"
)

// NewFinder builds the portal and wiki clients and the finder on top of them.
func NewFinder(cfg *config.Config, logger *zap.SugaredLogger) *services.FinderService {
	portal := services.NewPortalService(services.PortalOptions{
		BaseURL:        cfg.PortalBaseURL,
		ImageBaseURL:   cfg.PortalImageBaseURL,
		Timeout:        cfg.UpstreamTimeout,
		RPS:            cfg.UpstreamRPS,
		RosterCacheTTL: cfg.RosterCacheTTL,
	}, logger.Named("portal"))

	wiki := services.NewWikiService(services.WikiOptions{
		URL:               cfg.WikiURL,
		SpriteURLTemplate: cfg.SpriteURLTemplate,
		Timeout:           cfg.UpstreamTimeout,
		RPS:               cfg.UpstreamRPS,
	}, logger.Named("wiki"))

	var chooser services.Chooser
	if cfg.RandomSeed != nil {
		chooser = services.NewSeededChooser(*cfg.RandomSeed)
	}

	return services.NewFinderService(portal, wiki, chooser, logger.Named("finder"))
}
