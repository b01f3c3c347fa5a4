package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amaanshakeel0998/Agent/internal/catalog"
	"github.com/amaanshakeel0998/Agent/internal/desktop"
)

var (
	// ErrBrowserNotRunning means no window of the requested browser was
	// sampled. Expected on most turns; surfaced as "I don't see that open".
	ErrBrowserNotRunning = errors.New("browser not running")
	// ErrTabNotFound means no tab title matched the site keyword.
	ErrTabNotFound = errors.New("tab not found")
)

// Tab is one browser window/tab as seen through window titles.
type Tab struct {
	Title       string `json:"title"`
	WindowID    string `json:"window_id"`
	Browser     string `json:"browser"`
	MatchedSite string `json:"matched_site,omitempty"`
	Focused     bool   `json:"focused"`
}

// WindowActions focuses or closes a window. The locator computes which
// window to target; the side effect is an external collaborator.
type WindowActions interface {
	Activate(ctx context.Context, windowID string) error
	Close(ctx context.Context, windowID string) error
}

// Locator finds browser tabs by title-pattern matching against the
// catalog's site table. Stateless: every query re-samples the desktop.
type Locator struct {
	sampler desktop.Sampler
	windows WindowActions
	cat     *catalog.Catalog
}

func NewLocator(sampler desktop.Sampler, windows WindowActions, cat *catalog.Catalog) *Locator {
	return &Locator{sampler: sampler, windows: windows, cat: cat}
}

// ListTabs enumerates open tabs of one browser, or of all known
// browsers when browserName is empty.
func (l *Locator) ListTabs(ctx context.Context, browserName string) ([]Tab, error) {
	records, err := l.sampler.ListWindows(ctx)
	if err != nil {
		return nil, err
	}

	var tabs []Tab
	for _, rec := range records {
		browser, ok := l.browserFor(rec)
		if !ok {
			continue
		}
		if browserName != "" && browser != strings.ToLower(strings.TrimSpace(browserName)) {
			continue
		}
		tabs = append(tabs, Tab{
			Title:       CleanTitle(rec.WindowTitle),
			WindowID:    rec.WindowID,
			Browser:     browser,
			MatchedSite: l.siteForTitle(rec.WindowTitle),
			Focused:     rec.Focused,
		})
	}
	if len(tabs) == 0 && browserName != "" {
		return nil, fmt.Errorf("%w: %s", ErrBrowserNotRunning, browserName)
	}
	return tabs, nil
}

// FindTab locates the tab whose title matches the site keyword. Ties
// resolve to the focused window when focus is known, else the first
// enumerated.
func (l *Locator) FindTab(ctx context.Context, browserName, siteKeyword string) (Tab, error) {
	tabs, err := l.ListTabs(ctx, browserName)
	if err != nil {
		return Tab{}, err
	}
	return matchTab(tabs, l.cat.SitePatterns(siteKeyword), siteKeyword)
}

// SwitchToTab focuses the tab matching the site keyword.
func (l *Locator) SwitchToTab(ctx context.Context, browserName, siteKeyword string) (Tab, error) {
	tab, err := l.FindTab(ctx, browserName, siteKeyword)
	if err != nil {
		return Tab{}, err
	}
	if err := l.windows.Activate(ctx, tab.WindowID); err != nil {
		return Tab{}, fmt.Errorf("activate %s: %w", tab.Title, err)
	}
	return tab, nil
}

// CloseTab closes the tab matching the site keyword.
func (l *Locator) CloseTab(ctx context.Context, browserName, siteKeyword string) (Tab, error) {
	tab, err := l.FindTab(ctx, browserName, siteKeyword)
	if err != nil {
		return Tab{}, err
	}
	if err := l.windows.Close(ctx, tab.WindowID); err != nil {
		return Tab{}, fmt.Errorf("close %s: %w", tab.Title, err)
	}
	return tab, nil
}

// IsSiteOpen reports whether any tab matches the site keyword.
func (l *Locator) IsSiteOpen(ctx context.Context, siteKeyword string) (bool, error) {
	_, err := l.FindTab(ctx, "", siteKeyword)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrTabNotFound), errors.Is(err, ErrBrowserNotRunning):
		return false, nil
	default:
		return false, err
	}
}

// TabCount returns the number of open browser tabs across browsers.
func (l *Locator) TabCount(ctx context.Context) (int, error) {
	tabs, err := l.ListTabs(ctx, "")
	if err != nil {
		return 0, err
	}
	return len(tabs), nil
}

// Summary builds a spoken tab rundown grouped by browser, in the
// order tabs were enumerated.
func (l *Locator) Summary(ctx context.Context) (string, error) {
	tabs, err := l.ListTabs(ctx, "")
	if err != nil {
		return "", err
	}
	if len(tabs) == 0 {
		return "No browser tabs are open", nil
	}
	byBrowser := make(map[string][]string)
	var order []string
	for _, tab := range tabs {
		if _, seen := byBrowser[tab.Browser]; !seen {
			order = append(order, tab.Browser)
		}
		byBrowser[tab.Browser] = append(byBrowser[tab.Browser], tab.Title)
	}
	parts := make([]string, 0, len(order))
	for _, b := range order {
		parts = append(parts, fmt.Sprintf("%s: %s", b, strings.Join(byBrowser[b], ", ")))
	}
	return "Open tabs. " + strings.Join(parts, ". "), nil
}

func (l *Locator) browserFor(rec desktop.WindowRecord) (string, bool) {
	name := strings.ToLower(rec.ProcessName)
	for _, b := range l.cat.Browsers {
		for _, pat := range l.cat.PatternsFor(b) {
			if pat != "" && strings.Contains(name, strings.ToLower(pat)) {
				return strings.ToLower(b), true
			}
		}
	}
	return "", false
}

func (l *Locator) siteForTitle(title string) string {
	lower := strings.ToLower(title)
	best := ""
	bestLen := 0
	for _, site := range l.cat.SiteNames() {
		for _, pat := range l.cat.SitePatterns(site) {
			if pat != "" && strings.Contains(lower, strings.ToLower(pat)) && len(pat) > bestLen {
				best = site
				bestLen = len(pat)
			}
		}
	}
	return best
}

func matchTab(tabs []Tab, patterns []string, keyword string) (Tab, error) {
	if len(patterns) == 0 {
		patterns = []string{keyword}
	}
	var matched []Tab
	for _, tab := range tabs {
		lower := strings.ToLower(tab.Title)
		for _, pat := range patterns {
			if pat != "" && strings.Contains(lower, strings.ToLower(pat)) {
				matched = append(matched, tab)
				break
			}
		}
	}
	if len(matched) == 0 {
		return Tab{}, fmt.Errorf("%w: %s", ErrTabNotFound, keyword)
	}
	for _, tab := range matched {
		if tab.Focused {
			return tab, nil
		}
	}
	return matched[0], nil
}

// browser name suffixes window managers append to tab titles.
var titleSuffixes = []string{
	" - Google Chrome",
	" - Chromium",
	" - Mozilla Firefox",
	" — Mozilla Firefox",
	" - Brave",
}

// CleanTitle strips the browser-name suffix from a window title.
func CleanTitle(title string) string {
	for _, suffix := range titleSuffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	return strings.TrimSpace(title)
}
