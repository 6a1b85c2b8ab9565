// Package bot is the orchestration pipeline: intake, language handling,
// intent dispatch, reply translation and best-effort delivery.
package bot

import (
	"context"
	"log"
	"strings"

	"github.com/AlbatrossC/medllama2/internal/lang"
	"github.com/AlbatrossC/medllama2/internal/nlu"
	"github.com/AlbatrossC/medllama2/internal/translate"
)

// Fixed user-facing replies. Upstream failures always degrade to one of
// these instead of surfacing an error to the caller.
const (
	MsgEmptyPrompt         = "Please send a message."
	MsgUnknownIntent       = "Sorry, I couldn't understand that."
	MsgAIUnavailable       = "Sorry, I couldn't contact the AI service."
	MsgNoReply             = "Sorry, I couldn't generate a response."
	MsgNeedUserID          = "Please provide your user ID."
	MsgScheduleUnavailable = "Sorry, I couldn't check the schedule right now."
	MsgProcessing          = "Processing your request..."
	MsgPipelineError       = "Sorry, something went wrong while processing your request."
	MsgWebError            = "Sorry, there was an error processing your message."
)

// Accepted confidence for a provider-detected language. Below it the text
// is treated as English and no translation is attempted.
const detectConfidenceThreshold = 0.5

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type IntentClassifier interface {
	Parse(ctx context.Context, text string) (nlu.Result, error)
}

type ScheduleFinder interface {
	Describe(ctx context.Context, userID string) (string, error)
}

type Deliverer interface {
	Send(ctx context.Context, to, body string) error
}

// Deps are the external collaborators. Schedules, Translator and Messenger
// may be nil; the pipeline degrades instead of failing.
type Deps struct {
	Classifier IntentClassifier
	Generator  Generator
	Schedules  ScheduleFinder
	Translator translate.Translator
	Messenger  Deliverer

	// CloudDetect routes language detection through the translation
	// provider instead of the script-range heuristic.
	CloudDetect bool
}

type Service struct {
	classifier  IntentClassifier
	generator   Generator
	schedules   ScheduleFinder
	translator  translate.Translator
	messenger   Deliverer
	cloudDetect bool
}

func NewService(deps Deps) *Service {
	return &Service{
		classifier:  deps.Classifier,
		generator:   deps.Generator,
		schedules:   deps.Schedules,
		translator:  deps.Translator,
		messenger:   deps.Messenger,
		cloudDetect: deps.CloudDetect && deps.Translator != nil,
	}
}

// HandleChat runs the full pipeline for one utterance and returns the reply
// plus the detected language. sessionLang is the remembered preference used
// to label replies that never reach detection (empty input).
func (s *Service) HandleChat(ctx context.Context, text, sessionLang string) (reply, detected string) {
	text = strings.TrimSpace(text)
	if text == "" {
		if sessionLang == "" {
			sessionLang = lang.English
		}
		return MsgEmptyPrompt, sessionLang
	}

	detected = s.detectLanguage(ctx, text)

	english := text
	if detected != lang.English && s.translator != nil {
		out, err := s.translator.Translate(ctx, text, lang.English, detected)
		if err != nil || out == "" {
			log.Printf("[pipeline] translate to en failed, using original text: %v", err)
		} else {
			english = out
		}
	}

	reply = s.dispatch(ctx, english)

	if detected != lang.English && s.translator != nil {
		out, err := s.translator.Translate(ctx, reply, detected, lang.English)
		if err != nil || out == "" {
			log.Printf("[pipeline] translate reply to %s failed, returning english: %v", detected, err)
		} else {
			reply = out
		}
	}

	return reply, detected
}

// HandleWhatsApp runs the pipeline for a webhook message and delivers the
// result out-of-band. It is meant to run detached; nothing is reported back.
func (s *Service) HandleWhatsApp(ctx context.Context, from, body string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[whatsapp] background handler panic: %v", r)
		}
	}()

	reply, detected := s.HandleChat(ctx, body, "")
	log.Printf("[whatsapp] from=%s lang=%s", from, detected)

	if s.messenger == nil {
		log.Printf("[whatsapp] delivery not configured, dropping reply for %s", from)
		return
	}
	if err := s.messenger.Send(ctx, from, reply); err != nil {
		log.Printf("[whatsapp] send to %s failed: %v", from, err)
		return
	}
	log.Printf("[whatsapp] sent reply to %s", from)
}

// detectLanguage uses the script-range heuristic, or in cloud mode the
// provider's detector with English as the low-confidence fallback.
func (s *Service) detectLanguage(ctx context.Context, text string) string {
	if !s.cloudDetect {
		return lang.Detect(text)
	}
	det, err := s.translator.Detect(ctx, text)
	if err != nil {
		log.Printf("[pipeline] language detection failed, assuming english: %v", err)
		return lang.English
	}
	if det.Confidence < detectConfidenceThreshold || !lang.Supported(det.Language) {
		return lang.English
	}
	return det.Language
}

func (s *Service) dispatch(ctx context.Context, text string) string {
	if s.classifier == nil {
		return MsgUnknownIntent
	}

	res, err := s.classifier.Parse(ctx, text)
	if err != nil {
		log.Printf("[pipeline] intent classification failed: %v", err)
		return MsgUnknownIntent
	}
	log.Printf("[pipeline] intent=%s confidence=%.2f", res.Intent, res.Confidence)

	switch res.Intent {
	case "call_ai_agent":
		if s.generator == nil {
			return MsgAIUnavailable
		}
		reply, err := s.generator.Generate(ctx, text)
		if err != nil {
			log.Printf("[pipeline] inference call failed: %v", err)
			return MsgAIUnavailable
		}
		if reply == "" {
			return MsgNoReply
		}
		return reply

	case "check_schedule":
		userID, ok := res.EntityValue("user_id")
		if !ok || userID == "" {
			return MsgNeedUserID
		}
		if s.schedules == nil {
			return MsgScheduleUnavailable
		}
		out, err := s.schedules.Describe(ctx, userID)
		if err != nil {
			log.Printf("[pipeline] schedule lookup failed: %v", err)
			return MsgScheduleUnavailable
		}
		return out

	default:
		return MsgUnknownIntent
	}
}
