package api

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codyseavey/poke-finder/backend/internal/api/handlers"
)

//go:embed web
var webFS embed.FS

// RouterConfig holds the HTTP-layer settings.
type RouterConfig struct {
	CORSAllowedOrigins []string
}

func SetupRouter(finder handlers.Finder, cfg RouterConfig, logger *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(logger))
	router.Use(Metrics())

	// CORS configuration - allow origins from config or use defaults
	config := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		config.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	router.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(webFS, "web/templates/*.html"),
	))
	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	router.StaticFS("/static", http.FS(static))

	pokemonHandler := handlers.NewPokemonHandler(finder, logger)
	pageHandler := handlers.NewPageHandler(finder, logger)

	router.GET("/", pageHandler.Index)
	router.GET("/pokemon", pokemonHandler.GetPokemon)
	router.GET("/nearby-pokemon", pokemonHandler.GetNearbyPokemon)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}

var templateFuncs = template.FuncMap{
	"cm":      formatMetric,
	"kg":      formatMetric,
	"percent": func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
}

func formatMetric(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
