package router

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/amaanshakeel0998/Agent/internal/browser"
	"github.com/amaanshakeel0998/Agent/internal/catalog"
	"github.com/amaanshakeel0998/Agent/internal/desktop"
	"github.com/amaanshakeel0998/Agent/internal/history"
	"github.com/amaanshakeel0998/Agent/internal/memory"
	"github.com/amaanshakeel0998/Agent/internal/protocol"
	"github.com/amaanshakeel0998/Agent/internal/speech"
	"github.com/amaanshakeel0998/Agent/internal/workflow"
)

type fakeLauncher struct {
	launchErr error

	launched []string
	profiles []string
	sites    []string
	searches []string
}

func (f *fakeLauncher) LaunchApp(_ context.Context, spoken string) (string, int, error) {
	if f.launchErr != nil {
		return "", 0, f.launchErr
	}
	f.launched = append(f.launched, spoken)
	return spoken, 777, nil
}

func (f *fakeLauncher) LaunchBrowserProfile(_ context.Context, browser, profileDir string) (int, error) {
	f.profiles = append(f.profiles, browser+"/"+profileDir)
	return 778, nil
}

func (f *fakeLauncher) OpenSite(_ context.Context, site string) (string, error) {
	f.sites = append(f.sites, site)
	return "https://" + site + ".example", nil
}

func (f *fakeLauncher) Search(_ context.Context, platform, query string) (string, error) {
	f.searches = append(f.searches, platform+"|"+query)
	return "https://search.example", nil
}

type fakeCloser struct {
	pids  []int
	names []string
	err   error
}

func (f *fakeCloser) CloseByPID(_ context.Context, pid int) error {
	f.pids = append(f.pids, pid)
	return f.err
}

func (f *fakeCloser) CloseByName(_ context.Context, name string) error {
	f.names = append(f.names, name)
	return f.err
}

type fakeSampler struct {
	records []desktop.WindowRecord
	err     error
}

func (f *fakeSampler) ListWindows(context.Context) ([]desktop.WindowRecord, error) {
	return f.records, f.err
}

type windowStub struct{}

func (windowStub) Activate(context.Context, string) error { return nil }
func (windowStub) Close(context.Context, string) error    { return nil }

type fixture struct {
	router   *Router
	launcher *fakeLauncher
	closer   *fakeCloser
	store    *memory.Store
	engine   *workflow.Engine
	audit    *history.InMemoryStore
	events   []protocol.Event
}

func newFixture(t *testing.T, sampler desktop.Sampler) *fixture {
	t.Helper()
	cat := catalog.Defaults()
	launcher := &fakeLauncher{}
	closer := &fakeCloser{}
	store := memory.NewStore(10)
	engine := workflow.NewEngine(cat, launcher, store, 5, 45*time.Second)
	t.Cleanup(engine.Close)
	audit := history.NewInMemoryStore()

	f := &fixture{
		launcher: launcher,
		closer:   closer,
		store:    store,
		engine:   engine,
		audit:    audit,
	}
	f.router = New(Deps{
		Catalog:  cat,
		Store:    store,
		Engine:   engine,
		Sampler:  sampler,
		Tabs:     browser.NewLocator(sampler, windowStub{}, cat),
		Launcher: launcher,
		Windows:  closer,
		Audit:    audit,
		Publish:  func(ev protocol.Event) { f.events = append(f.events, ev) },
	})
	return f
}

func route(f *fixture, text string) Result {
	return f.router.Route(context.Background(), speech.Utterance{Text: text})
}

func TestRouteOpenApp(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "open the calculator")
	if !res.Handled {
		t.Fatalf("Handled = false, want true; response %q", res.Response)
	}
	if res.Intent != "open_app" {
		t.Fatalf("Intent = %q, want open_app", res.Intent)
	}
	if len(f.launcher.launched) != 1 || f.launcher.launched[0] != "calculator" {
		t.Fatalf("launched = %v, want [calculator]", f.launcher.launched)
	}
	// The launch lands in context for later pronoun references.
	if e, err := f.store.Resolve(memory.KindApp); err != nil || e.Identifier != "calculator" {
		t.Fatalf("context entry = (%+v, %v), want calculator app", e, err)
	}
}

func TestRouteBrowserOpenStartsWorkflow(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "open chrome")
	if res.Intent != "workflow_start" {
		t.Fatalf("Intent = %q, want workflow_start", res.Intent)
	}
	if !f.engine.Active() {
		t.Fatalf("engine not active after browser open")
	}
	if got := f.engine.Session().State; got != workflow.StateAwaitingProfile {
		t.Fatalf("State = %q, want awaiting_profile", got)
	}
	if res.Response == "" {
		t.Fatalf("empty response")
	}
}

func TestRouteWorkflowDelegationWinsOverOtherIntents(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	route(f, "open chrome")

	// "profile 1" would match nothing else; "open youtube" would match
	// open_site, but an active workflow consumes it first.
	res := route(f, "profile 1")
	if res.Intent != "workflow_turn" {
		t.Fatalf("Intent = %q, want workflow_turn", res.Intent)
	}
	res = route(f, "youtube")
	if res.Intent != "workflow_turn" {
		t.Fatalf("Intent = %q, want workflow_turn", res.Intent)
	}
	if len(f.launcher.sites) != 1 || f.launcher.sites[0] != "youtube" {
		t.Fatalf("sites = %v, want [youtube]", f.launcher.sites)
	}
}

func TestRouteSecondBrowserOpenIsConsumedByWorkflow(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	route(f, "open chrome")

	// A second "open firefox" mid-workflow is a workflow turn, not a new
	// start; it burns a turn and does not queue.
	res := route(f, "open firefox")
	if res.Intent != "workflow_turn" {
		t.Fatalf("Intent = %q, want workflow_turn", res.Intent)
	}
	if got := f.engine.Session().Browser; got != "chrome" {
		t.Fatalf("session browser = %q, want original chrome", got)
	}
}

func TestRouteExit(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "goodbye")
	if !res.Exit {
		t.Fatalf("Exit = false, want true")
	}
	if res.Intent != "exit" {
		t.Fatalf("Intent = %q, want exit", res.Intent)
	}
}

func TestRouteTurnOffWifiIsNotExit(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "turn off the wifi")
	if res.Exit {
		t.Fatalf("Exit = true for wifi command")
	}
	// No system adapter wired in this fixture, so it falls through to
	// the fallback rather than exiting.
	if res.Intent == "exit" {
		t.Fatalf("Intent = exit, want anything else")
	}
}

func TestRouteAppSummary(t *testing.T) {
	sampler := &fakeSampler{records: []desktop.WindowRecord{
		{ProcessName: "google-chrome", WindowTitle: "YouTube - Google Chrome", PID: 1, WindowID: "0x01"},
		{ProcessName: "gnome-terminal-server", WindowTitle: "~", PID: 2, WindowID: "0x02"},
	}}
	f := newFixture(t, sampler)
	res := route(f, "what apps are open")
	if !res.Handled {
		t.Fatalf("Handled = false; response %q", res.Response)
	}
	if !strings.Contains(res.Response, "Found 2 running applications") {
		t.Fatalf("Response = %q, want summary", res.Response)
	}
}

func TestRouteAppSummarySamplerUnavailable(t *testing.T) {
	f := newFixture(t, &fakeSampler{err: desktop.ErrSamplingUnavailable})
	res := route(f, "what apps are open")
	if res.Handled {
		t.Fatalf("Handled = true, want soft failure")
	}
	if res.Response != speech.CannotCheck(speech.LangEnglish) {
		t.Fatalf("Response = %q, want cannot-check phrase", res.Response)
	}
}

func TestRouteOpenSiteSwitchesWhenAlreadyOpen(t *testing.T) {
	sampler := &fakeSampler{records: []desktop.WindowRecord{
		{ProcessName: "google-chrome", WindowTitle: "YouTube - Google Chrome", PID: 1, WindowID: "0x01"},
	}}
	f := newFixture(t, sampler)
	res := route(f, "open youtube")
	if res.Intent != "open_site" {
		t.Fatalf("Intent = %q, want open_site", res.Intent)
	}
	if !strings.Contains(res.Response, "Switched to") {
		t.Fatalf("Response = %q, want switch instead of duplicate open", res.Response)
	}
	if len(f.launcher.sites) != 0 {
		t.Fatalf("sites = %v, want no URL open", f.launcher.sites)
	}
}

func TestRouteOpenSiteOpensWhenNotRunning(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "open reddit")
	if res.Intent != "open_site" || !res.Handled {
		t.Fatalf("result = %+v, want handled open_site", res)
	}
	if len(f.launcher.sites) != 1 || f.launcher.sites[0] != "reddit" {
		t.Fatalf("sites = %v, want [reddit]", f.launcher.sites)
	}
	if e, err := f.store.Resolve(memory.KindWebsite); err != nil || e.Identifier != "reddit" {
		t.Fatalf("context entry = (%+v, %v), want reddit website", e, err)
	}
}

func TestRouteSearchWithPlatform(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "search for lofi beats on youtube")
	if res.Intent != "search" || !res.Handled {
		t.Fatalf("result = %+v, want handled search", res)
	}
	if len(f.launcher.searches) != 1 || f.launcher.searches[0] != "youtube|lofi beats" {
		t.Fatalf("searches = %v, want [youtube|lofi beats]", f.launcher.searches)
	}
	// A query string is not a referent; searching must not shadow the
	// last real site in context.
	if e, err := f.store.Resolve(memory.KindWebsite); err == nil {
		t.Fatalf("search left website context entry %+v, want none", e)
	}
}

func TestRouteSearchWithoutQueryPrompts(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "search")
	if res.Intent != "search" {
		t.Fatalf("Intent = %q, want search", res.Intent)
	}
	if res.Response != speech.WhatToSearch(speech.LangEnglish) {
		t.Fatalf("Response = %q, want query prompt", res.Response)
	}
}

func TestRouteClosePronounUsesContext(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	route(f, "open the calculator")

	res := route(f, "close it")
	if res.Intent != "close_app" {
		t.Fatalf("Intent = %q, want close_app", res.Intent)
	}
	if !res.Handled {
		t.Fatalf("Handled = false; response %q", res.Response)
	}
	// Pronoun rewrite resolves to the calculator and closes by name.
	if len(f.closer.names) != 1 || f.closer.names[0] != "gnome-calculator" {
		t.Fatalf("closed names = %v, want [gnome-calculator]", f.closer.names)
	}
}

func TestRouteClosePronounWithoutContext(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "close it")
	if res.Intent != "close_app" {
		t.Fatalf("Intent = %q, want close_app", res.Intent)
	}
	if res.Response != speech.UnknownReference(speech.LangEnglish) {
		t.Fatalf("Response = %q, want unknown-reference phrase", res.Response)
	}
}

func TestRouteTabCloseBeforeCloseApp(t *testing.T) {
	sampler := &fakeSampler{records: []desktop.WindowRecord{
		{ProcessName: "google-chrome", WindowTitle: "YouTube - Google Chrome", PID: 1, WindowID: "0x01"},
	}}
	f := newFixture(t, sampler)
	res := route(f, "close the youtube tab")
	if res.Intent != "tab_close" {
		t.Fatalf("Intent = %q, want tab_close", res.Intent)
	}
	if len(f.closer.names) != 0 && len(f.closer.pids) != 0 {
		t.Fatalf("process close invoked for a tab close")
	}
}

func TestRouteForgetClearsContext(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	route(f, "open the calculator")
	res := route(f, "forget everything")
	if res.Intent != "forget" || !res.Handled {
		t.Fatalf("result = %+v, want handled forget", res)
	}
	if f.store.Len() != 0 {
		t.Fatalf("store length = %d after forget, want 0", f.store.Len())
	}
}

func TestRouteFallback(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "recite a poem about compilers")
	if res.Handled {
		t.Fatalf("Handled = true for nonsense input")
	}
	if res.Intent != "fallback" {
		t.Fatalf("Intent = %q, want fallback", res.Intent)
	}
	if res.Response != speech.NotSure(speech.LangEnglish) {
		t.Fatalf("Response = %q, want fallback phrase", res.Response)
	}
}

func TestRouteUrduDetection(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	res := route(f, "کیلکولیٹر") // no intent matches, but language should
	if res.Response != speech.NotSure(speech.LangUrdu) {
		t.Fatalf("Response = %q, want Urdu fallback", res.Response)
	}
}

func TestRouteAuditsEveryTurn(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	route(f, "open the calculator")
	route(f, "recite a poem")

	records, err := f.audit.RecentCommands(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentCommands() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Intent != "open_app" || !records[0].Handled {
		t.Fatalf("records[0] = %+v, want handled open_app", records[0])
	}
	if records[1].Intent != "fallback" || records[1].Handled {
		t.Fatalf("records[1] = %+v, want unhandled fallback", records[1])
	}
}

func TestRoutePublishesUtteranceAndReplyEvents(t *testing.T) {
	f := newFixture(t, &fakeSampler{})
	route(f, "open the calculator")

	var types []protocol.EventType
	for _, ev := range f.events {
		types = append(types, ev.Type)
	}
	if len(types) < 3 {
		t.Fatalf("event types = %v, want received, remembered and reply", types)
	}
	if types[0] != protocol.TypeUtteranceReceived {
		t.Fatalf("first event = %q, want utterance_received", types[0])
	}
	if types[len(types)-1] != protocol.TypeAssistantReply {
		t.Fatalf("last event = %q, want assistant_reply", types[len(types)-1])
	}
}
