package actions

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/amaanshakeel0998/Agent/internal/catalog"
)

// Launcher starts desktop applications and opens URLs. Stateless; the
// caller records anything worth remembering in the context store.
type Launcher struct {
	cat *catalog.Catalog
}

func NewLauncher(cat *catalog.Catalog) *Launcher {
	return &Launcher{cat: cat}
}

// LaunchApp resolves a spoken alias through the catalog and starts the
// app. Returns the canonical alias and the child PID.
func (l *Launcher) LaunchApp(_ context.Context, spoken string) (alias string, pid int, err error) {
	alias, command, ok := l.cat.AppCommand(spoken)
	if !ok {
		return "", 0, fmt.Errorf("%w: no app alias for %q", ErrActionFailed, spoken)
	}
	parts := strings.Fields(command)
	if len(parts) == 0 || !commandExists(parts[0]) {
		return alias, 0, fmt.Errorf("%w: %s is not installed", ErrActionFailed, command)
	}
	pid, err = startCommand(parts[0], parts[1:]...)
	if err != nil {
		return alias, 0, err
	}
	return alias, pid, nil
}

// LaunchBrowserProfile starts a browser with a specific profile
// directory, e.g. google-chrome --profile-directory="Profile 1".
func (l *Launcher) LaunchBrowserProfile(_ context.Context, browser, profileDir string) (int, error) {
	_, command, ok := l.cat.AppCommand(browser)
	if !ok {
		return 0, fmt.Errorf("%w: unknown browser %q", ErrActionFailed, browser)
	}
	parts := strings.Fields(command)
	if len(parts) == 0 || !commandExists(parts[0]) {
		return 0, fmt.Errorf("%w: %s is not installed", ErrActionFailed, command)
	}
	args := append(parts[1:], "--profile-directory="+profileDir)
	return startCommand(parts[0], args...)
}

// OpenURL opens a URL in the default browser via xdg-open.
func (l *Launcher) OpenURL(_ context.Context, rawURL string) error {
	if !commandExists("xdg-open") {
		return fmt.Errorf("%w: xdg-open is not installed", ErrActionFailed)
	}
	_, err := startCommand("xdg-open", rawURL)
	return err
}

// OpenSite opens a catalog site by name; unknown sites fall back to a
// web search for the spoken phrase.
func (l *Launcher) OpenSite(ctx context.Context, site string) (string, error) {
	target, ok := l.cat.SiteURL(site)
	if !ok {
		target = SearchURL("", site)
	}
	if err := l.OpenURL(ctx, target); err != nil {
		return "", err
	}
	return target, nil
}

// Search opens a search-results page on the given platform ("" means
// a generic web search).
func (l *Launcher) Search(ctx context.Context, platform, query string) (string, error) {
	target := SearchURL(platform, query)
	if err := l.OpenURL(ctx, target); err != nil {
		return "", err
	}
	return target, nil
}

// SearchURL builds the search-results URL for a platform.
func SearchURL(platform, query string) string {
	escaped := url.QueryEscape(strings.TrimSpace(query))
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "youtube":
		return "https://www.youtube.com/results?search_query=" + escaped
	default:
		return "https://www.google.com/search?q=" + escaped
	}
}
