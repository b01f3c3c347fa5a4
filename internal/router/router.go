package router

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amaanshakeel0998/Agent/internal/actions"
	"github.com/amaanshakeel0998/Agent/internal/browser"
	"github.com/amaanshakeel0998/Agent/internal/catalog"
	"github.com/amaanshakeel0998/Agent/internal/desktop"
	"github.com/amaanshakeel0998/Agent/internal/history"
	"github.com/amaanshakeel0998/Agent/internal/memory"
	"github.com/amaanshakeel0998/Agent/internal/observability"
	"github.com/amaanshakeel0998/Agent/internal/policy"
	"github.com/amaanshakeel0998/Agent/internal/protocol"
	"github.com/amaanshakeel0998/Agent/internal/speech"
	"github.com/amaanshakeel0998/Agent/internal/workflow"
)

// Result is the outcome of routing one utterance.
type Result struct {
	TurnID   string `json:"turn_id"`
	Handled  bool   `json:"handled"`
	Response string `json:"response"`
	Intent   string `json:"intent"`
	// Exit is true when the utterance asked the assistant to shut down.
	Exit bool `json:"exit"`
}

// WindowCloser terminates applications by PID or process name.
// Satisfied by actions.WMCtrlWindows.
type WindowCloser interface {
	CloseByPID(ctx context.Context, pid int) error
	CloseByName(ctx context.Context, name string) error
}

// Router matches utterances against an ordered intent table and runs
// the winning handler. Dispatch is strictly sequential: one mutex
// serializes turns so context writes and workflow transitions never
// interleave.
type Router struct {
	mu sync.Mutex

	cat      *catalog.Catalog
	store    *memory.Store
	engine   *workflow.Engine
	sampler  desktop.Sampler
	tabs     *browser.Locator
	launcher workflow.Launcher
	system   *actions.System
	media    *actions.Multimedia
	windows  WindowCloser

	audit   history.Store
	metrics *observability.Metrics
	window  *observability.RouteWindow
	publish func(protocol.Event)

	defaultLang speech.Language
	intents     []intent

	now func() time.Time
}

// Deps carries the router's collaborators. All but Catalog, Store and
// Engine may be nil; nil collaborators disable the matching intents.
type Deps struct {
	Catalog  *catalog.Catalog
	Store    *memory.Store
	Engine   *workflow.Engine
	Sampler  desktop.Sampler
	Tabs     *browser.Locator
	Launcher workflow.Launcher
	System   *actions.System
	Media    *actions.Multimedia
	Windows  WindowCloser

	Audit   history.Store
	Metrics *observability.Metrics
	Window  *observability.RouteWindow
	Publish func(protocol.Event)

	DefaultLanguage speech.Language
}

func New(deps Deps) *Router {
	r := &Router{
		cat:         deps.Catalog,
		store:       deps.Store,
		engine:      deps.Engine,
		sampler:     deps.Sampler,
		tabs:        deps.Tabs,
		launcher:    deps.Launcher,
		system:      deps.System,
		media:       deps.Media,
		windows:     deps.Windows,
		audit:       deps.Audit,
		metrics:     deps.Metrics,
		window:      deps.Window,
		publish:     deps.Publish,
		defaultLang: deps.DefaultLanguage,
		now:         time.Now,
	}
	if r.defaultLang == "" {
		r.defaultLang = speech.LangEnglish
	}
	r.intents = r.intentTable()
	return r
}

// Route processes one utterance end to end: match, act, remember,
// audit, publish. Always returns a Result; unmatched utterances come
// back with Handled=false and a fallback response.
func (r *Router) Route(ctx context.Context, utt speech.Utterance) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.now()
	turnID := uuid.NewString()

	lang := utt.Language
	if lang == "" {
		lang = speech.DetectLanguage(utt.Text)
	}
	if lang == "" {
		lang = r.defaultLang
	}
	norm := speech.Normalize(utt.Text)

	r.emit(protocol.Event{
		Type:     protocol.TypeUtteranceReceived,
		TurnID:   turnID,
		Text:     utt.Text,
		Language: string(lang),
		TS:       start.UTC(),
	})

	res := Result{TurnID: turnID, Intent: "fallback"}
	matched := false
	for _, in := range r.intents {
		out, ok := in.handle(ctx, norm, utt.Text, lang)
		if !ok {
			continue
		}
		out.TurnID = turnID
		out.Intent = in.name
		res = out
		matched = true
		break
	}
	if !matched {
		res.Response = speech.NotSure(lang)
		res.Handled = false
	}

	elapsed := r.now().Sub(start)
	r.observe(res, lang, utt.Text, elapsed)
	r.emit(protocol.Event{
		Type:     protocol.TypeAssistantReply,
		TurnID:   turnID,
		Text:     res.Response,
		Intent:   res.Intent,
		Language: string(lang),
		TS:       r.now().UTC(),
	})
	return res
}

func (r *Router) observe(res Result, lang speech.Language, text string, elapsed time.Duration) {
	if r.metrics != nil {
		outcome := "handled"
		if !res.Handled {
			outcome = "unhandled"
		}
		r.metrics.CommandsRouted.WithLabelValues(res.Intent, outcome).Inc()
		r.metrics.ObserveRouteLatency(elapsed)
		if r.engine != nil {
			if r.engine.Active() {
				r.metrics.ActiveWorkflow.Set(1)
			} else {
				r.metrics.ActiveWorkflow.Set(0)
			}
		}
	}
	if r.window != nil {
		r.window.Observe(res.Intent, float64(elapsed.Microseconds())/1000)
	}
	if r.audit != nil {
		scrubbed, _ := policy.ScrubForAudit(text)
		rec := history.Record{
			Utterance: scrubbed,
			Intent:    res.Intent,
			Response:  res.Response,
			Language:  string(lang),
			Handled:   res.Handled,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.audit.SaveCommand(ctx, rec); err != nil {
			log.Printf("audit save failed: %v", err)
		}
	}
}

func (r *Router) emit(ev protocol.Event) {
	if r.publish != nil {
		r.publish(ev)
	}
}

func (r *Router) failure(category string) {
	if r.metrics != nil {
		r.metrics.ActionFailures.WithLabelValues(category).Inc()
	}
	if r.window != nil {
		r.window.ObserveIndicator("action_failure_" + category)
	}
}

func (r *Router) samplerFailure() {
	if r.metrics != nil {
		r.metrics.SamplerErrors.Inc()
	}
	if r.window != nil {
		r.window.ObserveIndicator("sampler_unavailable")
	}
}

func (r *Router) rememberApp(alias string, pid int) {
	if r.store == nil {
		return
	}
	meta := map[string]string{}
	if pid > 0 {
		meta["pid"] = strconv.Itoa(pid)
	}
	e := r.store.Remember(memory.KindApp, alias, meta)
	r.emit(protocol.Event{
		Type:   protocol.TypeContextRemembered,
		Text:   e.Identifier,
		Detail: string(e.Kind),
		TS:     e.At,
	})
}

func (r *Router) rememberSite(site, url string) {
	if r.store == nil {
		return
	}
	e := r.store.Remember(memory.KindWebsite, site, map[string]string{"url": url})
	r.emit(protocol.Event{
		Type:   protocol.TypeContextRemembered,
		Text:   e.Identifier,
		Detail: string(e.Kind),
		TS:     e.At,
	})
}
