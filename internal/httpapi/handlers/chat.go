package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AlbatrossC/medllama2/internal/session"
)

const (
	sessionCookie = "chat_session"
	cookieMaxAge  = int(30 * 24 * time.Hour / time.Second)
)

// loadSession resolves the visitor's descriptor from the signed cookie,
// minting a fresh one when the cookie is absent, forged or expired from
// the store. It never fails the request.
func (h *Handler) loadSession(c *gin.Context) *session.Descriptor {
	if tok, err := c.Cookie(sessionCookie); err == nil && h.Sessions != nil {
		if sid, err := session.ParseToken(h.Cfg.SessionSecret, tok); err == nil {
			if d, err := h.Sessions.Get(c.Request.Context(), sid); err == nil {
				return d
			}
		}
	}

	d, err := session.New()
	if err != nil {
		log.Printf("[session] mint failed: %v", err)
		return &session.Descriptor{Language: "en", CreatedAt: time.Now().UTC()}
	}
	h.saveSession(c, d)
	return d
}

// saveSession persists the descriptor (best effort) and refreshes the cookie.
func (h *Handler) saveSession(c *gin.Context, d *session.Descriptor) {
	if h.Sessions != nil && d.ID != "" {
		if err := h.Sessions.Save(c.Request.Context(), d); err != nil {
			log.Printf("[session] save %s failed: %v", d.ID, err)
		}
	}
	if d.ID == "" {
		return
	}
	tok, err := session.SignToken(h.Cfg.SessionSecret, d.ID)
	if err != nil {
		log.Printf("[session] sign token failed: %v", err)
		return
	}
	c.SetCookie(sessionCookie, tok, cookieMaxAge, "/", "", false, true)
}

type chatReq struct {
	Message string `json:"message"`
}

// Chat is the JSON web-chat intake.
func (h *Handler) Chat(c *gin.Context) {
	var req chatReq
	// a missing or malformed body is handled as an empty message
	_ = c.ShouldBindJSON(&req)

	sess := h.loadSession(c)

	reply, detected := h.Bot.HandleChat(c.Request.Context(), req.Message, sess.Language)

	if detected != "" && detected != sess.Language {
		sess.Language = detected
		h.saveSession(c, sess)
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":             reply,
		"session_id":        sess.ID,
		"detected_language": detected,
	})
}

// Home renders the landing page.
func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}
