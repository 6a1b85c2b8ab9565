package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlbatrossC/medllama2/internal/lang"
)

type setLanguageReq struct {
	Language string `json:"language"`
}

// SetLanguage lets the visitor pin a language preference manually.
// Only en, hi and mr are selectable.
func (h *Handler) SetLanguage(c *gin.Context) {
	var req setLanguageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body.",
		})
		return
	}

	code := strings.ToLower(strings.TrimSpace(req.Language))
	switch code {
	case lang.English, lang.Hindi, lang.Marathi:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Unsupported language code.",
		})
		return
	}

	sess := h.loadSession(c)
	sess.Language = code
	h.saveSession(c, sess)

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"language": code,
	})
}

// GetLanguage reports the session's current language preference.
func (h *Handler) GetLanguage(c *gin.Context) {
	sess := h.loadSession(c)
	c.JSON(http.StatusOK, gin.H{
		"language_code": sess.Language,
		"language_name": lang.Name(sess.Language),
	})
}
