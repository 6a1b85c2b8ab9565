package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusRunning       = "running"
	statusDown          = "down"
	statusNotConfigured = "not_configured"
)

const probeTimeout = 2 * time.Second

// Health probes each collaborator with a short timeout. It always answers
// 200; collaborator state is reported in the body only.
func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	services := gin.H{
		"ollama": h.probeURL(ctx, h.Cfg.OllamaURL),
		"rasa":   h.probeURL(ctx, h.Cfg.RasaURL),
	}

	if h.Schedules == nil {
		services["database"] = statusNotConfigured
	} else {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		if err := h.Schedules.Ping(pctx); err != nil {
			services["database"] = statusDown
		} else {
			services["database"] = statusRunning
		}
		cancel()
	}

	if h.Translator == nil {
		services["translator"] = statusNotConfigured
	} else {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		if err := h.Translator.CheckHealth(pctx); err != nil {
			services["translator"] = statusDown
		} else {
			services["translator"] = statusRunning
		}
		cancel()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	})
}

// probeURL treats any HTTP answer, whatever the status code, as proof of
// life; only transport failures count as down.
func (h *Handler) probeURL(ctx context.Context, url string) string {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pctx, http.MethodGet, url, nil)
	if err != nil {
		return statusDown
	}
	resp, err := h.probe.Do(req)
	if err != nil {
		return statusDown
	}
	resp.Body.Close()
	return statusRunning
}
