package handlers

import (
	"net/http"
	"time"

	"github.com/AlbatrossC/medllama2/internal/bot"
	"github.com/AlbatrossC/medllama2/internal/config"
	"github.com/AlbatrossC/medllama2/internal/schedule"
	"github.com/AlbatrossC/medllama2/internal/session"
	"github.com/AlbatrossC/medllama2/internal/translate"
)

type Handler struct {
	Cfg        config.Config
	Bot        *bot.Service
	Sessions   *session.Store
	Schedules  *schedule.Repo
	Translator translate.Translator

	// probe is used by the health check only
	probe *http.Client
}

func NewHandler(cfg config.Config, svc *bot.Service, sessions *session.Store, schedules *schedule.Repo, translator translate.Translator) *Handler {
	return &Handler{
		Cfg:        cfg,
		Bot:        svc,
		Sessions:   sessions,
		Schedules:  schedules,
		Translator: translator,
		probe:      &http.Client{Timeout: 2 * time.Second},
	}
}
