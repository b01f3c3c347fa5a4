package workflow

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amaanshakeel0998/Agent/internal/browser"
	"github.com/amaanshakeel0998/Agent/internal/catalog"
	"github.com/amaanshakeel0998/Agent/internal/memory"
	"github.com/amaanshakeel0998/Agent/internal/speech"
)

// Launcher is the slice of actions.Launcher the engine needs. Narrow so
// tests can fake launches without spawning processes.
type Launcher interface {
	LaunchApp(ctx context.Context, spoken string) (alias string, pid int, err error)
	LaunchBrowserProfile(ctx context.Context, browser, profileDir string) (int, error)
	OpenSite(ctx context.Context, site string) (string, error)
	Search(ctx context.Context, platform, query string) (string, error)
}

// TabSwitcher focuses an already-open tab. Satisfied by
// browser.Locator; optional, the engine opens a fresh tab without one.
type TabSwitcher interface {
	SwitchToTab(ctx context.Context, browserName, siteKeyword string) (browser.Tab, error)
}

// Engine runs the single guided browser workflow: open a browser, pick
// a profile, open a site, search. At most one session is live; a second
// start is rejected and the utterance consumed.
type Engine struct {
	mu      sync.Mutex
	session Session

	cat      *catalog.Catalog
	launcher Launcher
	store    *memory.Store
	tabs     TabSwitcher

	turnCeiling  int
	stateTimeout time.Duration
	now          func() time.Time

	// onChange, when set, observes every state transition. Called
	// outside the lock with a clone.
	onChange func(Session)

	stopJanitor chan struct{}
	janitorOnce sync.Once
}

const (
	defaultTurnCeiling  = 5
	defaultStateTimeout = 45 * time.Second
)

func NewEngine(cat *catalog.Catalog, launcher Launcher, store *memory.Store, turnCeiling int, stateTimeout time.Duration) *Engine {
	if turnCeiling <= 0 {
		turnCeiling = defaultTurnCeiling
	}
	if stateTimeout <= 0 {
		stateTimeout = defaultStateTimeout
	}
	return &Engine{
		session:      Session{State: StateIdle},
		cat:          cat,
		launcher:     launcher,
		store:        store,
		turnCeiling:  turnCeiling,
		stateTimeout: stateTimeout,
		now:          time.Now,
		stopJanitor:  make(chan struct{}),
	}
}

// UseTabs lets the target step focus an already-open tab instead of
// opening a duplicate.
func (e *Engine) UseTabs(tabs TabSwitcher) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tabs = tabs
}

// OnChange registers a state-transition observer.
func (e *Engine) OnChange(fn func(Session)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Session returns a clone of the current session.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.clone()
}

// Active reports whether a workflow is in flight.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Active()
}

// Start begins a browser workflow. With a preset profile the browser
// launches immediately; profile-capable browsers without one move to
// profile selection; plain browsers launch and move straight to target
// selection.
func (e *Engine) Start(ctx context.Context, browser, presetProfile string, lang speech.Language) (Result, error) {
	e.mu.Lock()
	if e.session.Active() {
		e.mu.Unlock()
		return Result{}, ErrWorkflowActive
	}
	now := e.now().UTC()
	e.session = Session{
		ID:        uuid.NewString(),
		State:     StateIdle,
		Browser:   strings.ToLower(strings.TrimSpace(browser)),
		Slots:     make(map[string]string),
		StartedAt: now,
		UpdatedAt: now,
	}
	e.mu.Unlock()

	if presetProfile != "" && e.cat.SupportsProfiles(browser) {
		dir, ok := e.cat.ProfileDir(presetProfile)
		if !ok {
			e.toIdle()
			return Result{Response: speech.UnknownProfile(lang, presetProfile), Done: true}, nil
		}
		return e.launchWithProfile(ctx, browser, dir, lang, false)
	}

	alias, pid, err := e.launcher.LaunchApp(ctx, browser)
	if err != nil {
		e.toIdle()
		return Result{Response: speech.NotInstalled(lang, browser), Done: true}, nil
	}
	e.rememberApp(alias, pid, "")

	// Profile browsers open plainly first; the profile answer relaunches
	// into the chosen profile directory.
	if e.cat.SupportsProfiles(browser) {
		e.transition(StateAwaitingProfile, nil)
		return Result{Response: speech.WhichProfile(lang)}, nil
	}
	e.transition(StateAwaitingTarget, nil)
	return Result{Response: speech.Opening(lang, alias)}, nil
}

// Handle consumes one utterance inside a live session. Every call burns
// a turn; exceeding the ceiling cancels the session.
func (e *Engine) Handle(ctx context.Context, text string, lang speech.Language) (Result, error) {
	e.mu.Lock()
	if !e.session.Active() {
		e.mu.Unlock()
		return Result{}, ErrNoWorkflow
	}
	e.session.Turns++
	e.session.UpdatedAt = e.now().UTC()
	state := e.session.State
	turns := e.session.Turns
	browser := e.session.Browser
	e.mu.Unlock()

	normalized := speech.Normalize(text)

	if isCancel(normalized) {
		e.toIdle()
		return Result{Response: speech.Cancelling(lang), Done: true}, nil
	}
	if turns >= e.turnCeiling {
		e.toIdle()
		return Result{Response: speech.Cancelling(lang), Done: true}, nil
	}
	if normalized == "help" || normalized == "what can i say" || normalized == "what do i do" {
		return Result{Response: stateHint(state, lang)}, nil
	}

	switch state {
	case StateAwaitingProfile:
		return e.handleProfile(ctx, normalized, browser, lang)
	case StateAwaitingTarget:
		return e.handleTarget(ctx, normalized, browser, lang)
	case StateAwaitingQuery:
		return e.handleQuery(ctx, text, lang)
	default:
		e.toIdle()
		return Result{}, ErrNoWorkflow
	}
}

// Cancel ends any live session.
func (e *Engine) Cancel() bool {
	e.mu.Lock()
	active := e.session.Active()
	e.mu.Unlock()
	if active {
		e.toIdle()
	}
	return active
}

func (e *Engine) handleProfile(ctx context.Context, text, browser string, lang speech.Language) (Result, error) {
	dir, ok := e.cat.ProfileDir(text)
	if !ok {
		// Stay in profile selection; the ceiling bounds retries.
		return Result{Response: speech.UnknownProfile(lang, text)}, nil
	}
	return e.launchWithProfile(ctx, browser, dir, lang, true)
}

// launchWithProfile relaunches the browser into a profile directory.
// browserOpen distinguishes a failed profile pick (the plain window is
// up, stay and let the user retry) from a total launch failure.
func (e *Engine) launchWithProfile(ctx context.Context, browser, profileDir string, lang speech.Language, browserOpen bool) (Result, error) {
	pid, err := e.launcher.LaunchBrowserProfile(ctx, browser, profileDir)
	if err != nil {
		if browserOpen {
			return Result{Response: speech.ActionFailed(lang)}, nil
		}
		e.toIdle()
		return Result{Response: speech.ActionFailed(lang), Done: true}, nil
	}
	e.rememberApp(browser, pid, profileDir)
	e.transition(StateAwaitingTarget, map[string]string{"profile": profileDir})
	return Result{Response: speech.ProfileOpened(lang, profileDir)}, nil
}

func (e *Engine) handleTarget(ctx context.Context, text, browser string, lang speech.Language) (Result, error) {
	if query, ok := extractQuery(text); ok {
		if query == "" {
			e.transition(StateAwaitingQuery, map[string]string{"platform": ""})
			return Result{Response: speech.WhatToSearch(lang)}, nil
		}
		return e.runSearch(ctx, "", query, lang)
	}

	site, ok := e.cat.SiteFor(text)
	if !ok {
		return Result{Response: speech.NotSure(lang)}, nil
	}

	// Focus an existing tab before opening a duplicate.
	if e.tabs != nil {
		if tab, err := e.tabs.SwitchToTab(ctx, browser, site); err == nil {
			e.rememberSite(site, tab.Title)
			if searchable(site) {
				e.transition(StateAwaitingQuery, map[string]string{"platform": site})
				return Result{Response: speech.SwitchedTo(lang, tab.Title)}, nil
			}
			e.toIdle()
			return Result{Response: speech.SwitchedTo(lang, tab.Title), Done: true}, nil
		}
	}

	target, err := e.launcher.OpenSite(ctx, site)
	if err != nil {
		e.toIdle()
		return Result{Response: speech.ActionFailed(lang), Done: true}, nil
	}
	e.rememberSite(site, target)

	if searchable(site) {
		e.transition(StateAwaitingQuery, map[string]string{"platform": site})
		return Result{Response: speech.Opening(lang, site)}, nil
	}
	e.toIdle()
	return Result{Response: speech.Opening(lang, site), Done: true}, nil
}

func (e *Engine) handleQuery(ctx context.Context, text string, lang speech.Language) (Result, error) {
	e.mu.Lock()
	platform := e.session.Slots["platform"]
	e.mu.Unlock()

	query := text
	if q, ok := extractQuery(speech.Normalize(text)); ok {
		query = q
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Response: speech.WhatToSearch(lang)}, nil
	}
	return e.runSearch(ctx, platform, query, lang)
}

func (e *Engine) runSearch(ctx context.Context, platform, query string, lang speech.Language) (Result, error) {
	// Searches leave no context entry: "it" should keep resolving to the
	// site or app, not to a query string no tab ever matches.
	if _, err := e.launcher.Search(ctx, platform, query); err != nil {
		e.toIdle()
		return Result{Response: speech.ActionFailed(lang), Done: true}, nil
	}
	e.toIdle()
	return Result{Response: speech.Searching(lang, query), Done: true}, nil
}

// StartJanitor expires sessions that sit in one state past the timeout.
// Idempotent; Close stops it.
func (e *Engine) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	e.janitorOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					e.expireStale()
				case <-e.stopJanitor:
					return
				}
			}
		}()
	})
}

// Close stops the janitor.
func (e *Engine) Close() {
	select {
	case <-e.stopJanitor:
	default:
		close(e.stopJanitor)
	}
}

func (e *Engine) expireStale() {
	e.mu.Lock()
	stale := e.session.Active() && e.now().UTC().Sub(e.session.UpdatedAt) > e.stateTimeout
	id := e.session.ID
	e.mu.Unlock()
	if stale {
		log.Printf("workflow %s expired after %s of inactivity", id, e.stateTimeout)
		e.toIdle()
	}
}

func (e *Engine) transition(state State, slots map[string]string) {
	e.mu.Lock()
	e.session.State = state
	e.session.UpdatedAt = e.now().UTC()
	for k, v := range slots {
		e.session.Slots[k] = v
	}
	snapshot := e.session.clone()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

func (e *Engine) toIdle() {
	e.mu.Lock()
	e.session = Session{State: StateIdle, UpdatedAt: e.now().UTC()}
	snapshot := e.session.clone()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

func (e *Engine) rememberApp(alias string, pid int, profile string) {
	if e.store == nil {
		return
	}
	meta := map[string]string{}
	if pid > 0 {
		meta["pid"] = strconv.Itoa(pid)
	}
	if profile != "" {
		meta["profile"] = profile
	}
	e.store.Remember(memory.KindApp, alias, meta)
}

func (e *Engine) rememberSite(site, url string) {
	if e.store == nil {
		return
	}
	e.store.Remember(memory.KindWebsite, site, map[string]string{"url": url})
}

// stateHint tells a stuck user what the current state is waiting for.
func stateHint(state State, lang speech.Language) string {
	switch state {
	case StateAwaitingProfile:
		return speech.WhichProfile(lang)
	case StateAwaitingQuery:
		return speech.WhatToSearch(lang)
	default:
		return speech.WhichSite(lang)
	}
}

var cancelPhrases = []string{
	"cancel", "never mind", "nevermind", "forget it", "stop", "منسوخ",
}

func isCancel(text string) bool {
	for _, p := range cancelPhrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// extractQuery pulls the query out of "search for X" / "search X" /
// "look up X" phrasings. ok is true when the utterance is a search at
// all, even with an empty query.
func extractQuery(text string) (string, bool) {
	for _, prefix := range []string{"search for", "search", "look up", "look for", "find"} {
		if strings.HasPrefix(text, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(text, prefix)), true
		}
	}
	return "", false
}

// searchable sites keep the workflow alive waiting for a query.
func searchable(site string) bool {
	return site == "youtube" || site == "google"
}
