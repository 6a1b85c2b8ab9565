package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlbatrossC/medllama2/internal/bot"
	"github.com/AlbatrossC/medllama2/internal/messaging"
)

// WhatsApp is the Twilio webhook intake. It acks immediately with TwiML and
// runs the pipeline in a detached goroutine so the webhook deadline is never
// hit; the result is delivered out-of-band, not in this response.
func (h *Handler) WhatsApp(c *gin.Context) {
	body := strings.TrimSpace(c.PostForm("Body"))
	from := c.PostForm("From")
	log.Printf("[whatsapp] received from=%s", from)

	// context.Background: the worker must outlive this request. Work in
	// flight at shutdown is abandoned; that is accepted behavior here.
	go h.Bot.HandleWhatsApp(context.Background(), from, body)

	c.Data(http.StatusOK, "text/xml; charset=utf-8",
		[]byte(messaging.AckTwiML(bot.MsgProcessing)))
}
