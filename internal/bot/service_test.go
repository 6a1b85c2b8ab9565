package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AlbatrossC/medllama2/internal/nlu"
	"github.com/AlbatrossC/medllama2/internal/translate"
)

type fakeClassifier struct {
	result nlu.Result
	err    error
	calls  int
}

func (f *fakeClassifier) Parse(ctx context.Context, text string) (nlu.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeGenerator struct {
	reply string
	err   error
	last  string
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.last = prompt
	return f.reply, f.err
}

type fakeSchedules struct {
	reply string
	err   error
	last  string
}

func (f *fakeSchedules) Describe(ctx context.Context, userID string) (string, error) {
	f.last = userID
	return f.reply, f.err
}

// fakeTranslator "translates" by tagging the text so tests can see both hops.
type fakeTranslator struct {
	fail      bool
	detection translate.Detection
	calls     int
}

func (f *fakeTranslator) Detect(ctx context.Context, text string) (translate.Detection, error) {
	if f.fail {
		return translate.Detection{}, errors.New("translator down")
	}
	return f.detection, nil
}

func (f *fakeTranslator) Translate(ctx context.Context, text, target, source string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("translator down")
	}
	return "[" + target + "]" + text, nil
}

func (f *fakeTranslator) CheckHealth(ctx context.Context) error { return nil }

type fakeMessenger struct {
	to, body string
	err      error
	calls    int
}

func (f *fakeMessenger) Send(ctx context.Context, to, body string) error {
	f.calls++
	f.to, f.body = to, body
	return f.err
}

func TestHandleChat_EmptyMessageShortCircuits(t *testing.T) {
	cls := &fakeClassifier{}
	gen := &fakeGenerator{}
	tr := &fakeTranslator{}
	svc := NewService(Deps{Classifier: cls, Generator: gen, Translator: tr})

	reply, detected := svc.HandleChat(context.Background(), "   ", "mr")
	if reply != MsgEmptyPrompt {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if detected != "mr" {
		t.Fatalf("expected session language label, got %q", detected)
	}
	if cls.calls != 0 || gen.calls != 0 || tr.calls != 0 {
		t.Fatalf("no collaborator should be called for empty input (cls=%d gen=%d tr=%d)",
			cls.calls, gen.calls, tr.calls)
	}
}

func TestHandleChat_MarathiRoundTrip(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent", Confidence: 0.9}}
	gen := &fakeGenerator{reply: "Glad to hear it."}
	tr := &fakeTranslator{}
	svc := NewService(Deps{Classifier: cls, Generator: gen, Translator: tr})

	reply, detected := svc.HandleChat(context.Background(), "मी बरा आहे", "")
	if detected != "mr" {
		t.Fatalf("expected mr, got %q", detected)
	}
	// forward hop: backend got the english-translated text
	if !strings.HasPrefix(gen.last, "[en]") {
		t.Fatalf("backend should receive english text, got %q", gen.last)
	}
	// return hop: reply translated back to marathi
	if reply != "[mr]Glad to hear it." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleChat_EnglishSkipsTranslation(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent"}}
	gen := &fakeGenerator{reply: "hello"}
	tr := &fakeTranslator{}
	svc := NewService(Deps{Classifier: cls, Generator: gen, Translator: tr})

	reply, detected := svc.HandleChat(context.Background(), "how are you", "")
	if detected != "en" {
		t.Fatalf("expected en, got %q", detected)
	}
	if tr.calls != 0 {
		t.Fatalf("translator should not be called for english input")
	}
	if reply != "hello" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleChat_TranslatorFailureFallsBack(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent"}}
	gen := &fakeGenerator{reply: "Drink water."}
	tr := &fakeTranslator{fail: true}
	svc := NewService(Deps{Classifier: cls, Generator: gen, Translator: tr})

	reply, detected := svc.HandleChat(context.Background(), "मुझे सिरदर्द है", "")
	if detected != "hi" {
		t.Fatalf("expected hi, got %q", detected)
	}
	// forward hop failed: the original text is forwarded unchanged
	if gen.last != "मुझे सिरदर्द है" {
		t.Fatalf("expected original text forwarded, got %q", gen.last)
	}
	// return hop failed: the english reply is returned unchanged
	if reply != "Drink water." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleChat_GeneratorFailureYieldsFallback(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent"}}
	gen := &fakeGenerator{err: errors.New("connection refused")}
	svc := NewService(Deps{Classifier: cls, Generator: gen})

	reply, _ := svc.HandleChat(context.Background(), "hello", "")
	if reply != MsgAIUnavailable {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleChat_EmptyGenerationYieldsFallback(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent"}}
	gen := &fakeGenerator{reply: ""}
	svc := NewService(Deps{Classifier: cls, Generator: gen})

	reply, _ := svc.HandleChat(context.Background(), "hello", "")
	if reply != MsgNoReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleChat_ClassifierFailureYieldsFallback(t *testing.T) {
	cls := &fakeClassifier{err: errors.New("rasa down")}
	gen := &fakeGenerator{reply: "never"}
	svc := NewService(Deps{Classifier: cls, Generator: gen})

	reply, _ := svc.HandleChat(context.Background(), "hello", "")
	if reply != MsgUnknownIntent {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if gen.calls != 0 {
		t.Fatalf("backend should not be called when classification fails")
	}
}

func TestHandleChat_UnknownIntent(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "tell_joke", Confidence: 0.8}}
	svc := NewService(Deps{Classifier: cls, Generator: &fakeGenerator{}})

	reply, _ := svc.HandleChat(context.Background(), "hello", "")
	if reply != MsgUnknownIntent {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleChat_CheckSchedule(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{
		Intent:   "check_schedule",
		Entities: []nlu.Entity{{Entity: "user_id", Value: "42"}},
	}}
	sch := &fakeSchedules{reply: "Hi Asha, your dental checkup is on 2025-03-14"}
	svc := NewService(Deps{Classifier: cls, Schedules: sch})

	reply, _ := svc.HandleChat(context.Background(), "what's my schedule? id 42", "")
	if sch.last != "42" {
		t.Fatalf("lookup used wrong id: %q", sch.last)
	}
	if reply != "Hi Asha, your dental checkup is on 2025-03-14" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleChat_CheckScheduleWithoutID(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "check_schedule"}}
	sch := &fakeSchedules{reply: "never"}
	svc := NewService(Deps{Classifier: cls, Schedules: sch})

	reply, _ := svc.HandleChat(context.Background(), "what's my schedule?", "")
	if reply != MsgNeedUserID {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleChat_CheckScheduleUnconfiguredStore(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{
		Intent:   "check_schedule",
		Entities: []nlu.Entity{{Entity: "user_id", Value: "42"}},
	}}
	svc := NewService(Deps{Classifier: cls})

	reply, _ := svc.HandleChat(context.Background(), "schedule for 42", "")
	if reply != MsgScheduleUnavailable {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleChat_CloudDetectLowConfidence(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent"}}
	gen := &fakeGenerator{reply: "ok"}
	tr := &fakeTranslator{detection: translate.Detection{Language: "hi", Confidence: 0.3}}
	svc := NewService(Deps{Classifier: cls, Generator: gen, Translator: tr, CloudDetect: true})

	_, detected := svc.HandleChat(context.Background(), "कैसे हो", "")
	if detected != "en" {
		t.Fatalf("low confidence should be treated as english, got %q", detected)
	}
	if tr.calls != 0 {
		t.Fatalf("no translation should be attempted below the threshold")
	}
}

func TestHandleChat_CloudDetectAccepted(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent"}}
	gen := &fakeGenerator{reply: "ok"}
	tr := &fakeTranslator{detection: translate.Detection{Language: "hi", Confidence: 0.9}}
	svc := NewService(Deps{Classifier: cls, Generator: gen, Translator: tr, CloudDetect: true})

	reply, detected := svc.HandleChat(context.Background(), "कैसे हो", "")
	if detected != "hi" {
		t.Fatalf("expected hi, got %q", detected)
	}
	if reply != "[hi]ok" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleWhatsApp_DeliversReply(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent"}}
	gen := &fakeGenerator{reply: "all good"}
	msn := &fakeMessenger{}
	svc := NewService(Deps{Classifier: cls, Generator: gen, Messenger: msn})

	svc.HandleWhatsApp(context.Background(), "whatsapp:+911234567890", "hello")
	if msn.calls != 1 {
		t.Fatalf("expected one delivery, got %d", msn.calls)
	}
	if msn.to != "whatsapp:+911234567890" || msn.body != "all good" {
		t.Fatalf("unexpected delivery: to=%q body=%q", msn.to, msn.body)
	}
}

func TestHandleWhatsApp_DeliveryFailureIsSwallowed(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent"}}
	gen := &fakeGenerator{reply: "all good"}
	msn := &fakeMessenger{err: errors.New("twilio 401")}
	svc := NewService(Deps{Classifier: cls, Generator: gen, Messenger: msn})

	// must not panic or propagate
	svc.HandleWhatsApp(context.Background(), "whatsapp:+911234567890", "hello")
	if msn.calls != 1 {
		t.Fatalf("expected a delivery attempt, got %d", msn.calls)
	}
}

func TestHandleWhatsApp_NoMessengerConfigured(t *testing.T) {
	cls := &fakeClassifier{result: nlu.Result{Intent: "call_ai_agent"}}
	gen := &fakeGenerator{reply: "all good"}
	svc := NewService(Deps{Classifier: cls, Generator: gen})

	// fire-and-forget path must tolerate a missing delivery capability
	svc.HandleWhatsApp(context.Background(), "whatsapp:+911234567890", "hello")
}
