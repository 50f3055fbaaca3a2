package preview

import (
	"net/http"
	"os"
	"path/filepath"

	applogger "VixPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Handler serves the published dashboard directory for local preview,
// plus health and a convenience endpoint for the latest summary.
type Handler struct {
	outputDir string
	l         *applogger.Logger
}

// New creates a preview handler over the published output directory.
func New(outputDir string, l *applogger.Logger) *Handler {
	return &Handler{outputDir: outputDir, l: l}
}

// RegisterRoutes registers the preview routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Static("/", h.outputDir)
	e.GET("/healthz", h.health)
	e.GET("/api/summary", h.summary)
}

func (h *Handler) health(c echo.Context) error {
	status := "ok"
	if _, err := os.Stat(filepath.Join(h.outputDir, "index.html")); err != nil {
		status = "no artifact published"
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}

func (h *Handler) summary(c echo.Context) error {
	b, err := os.ReadFile(filepath.Join(h.outputDir, "summary.json"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no summary published"})
	}
	return c.JSONBlob(http.StatusOK, b)
}
