package httpapi

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlbatrossC/medllama2/internal/httpapi/handlers"
	"github.com/AlbatrossC/medllama2/internal/httpapi/middleware"
	"github.com/AlbatrossC/medllama2/web"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"status": "error", "message": "method not allowed"})
	})

	r.GET("/", h.Home)
	r.POST("/chat", h.Chat)
	r.POST("/set_language", h.SetLanguage)
	r.GET("/get_language", h.GetLanguage)
	r.POST("/whatsapp", h.WhatsApp)
	r.GET("/health", h.Health)

	return r
}
