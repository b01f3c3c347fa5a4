package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog holds the static alias tables the assistant matches spoken
// keywords against: app aliases, site patterns, site URLs and browser
// profiles. It is loaded once at startup and read-only afterwards.
type Catalog struct {
	// Apps maps a spoken alias to the command used to launch it.
	Apps map[string]string `yaml:"apps"`
	// AppPatterns maps a canonical app name to process-name fragments
	// used when grouping sampled windows/processes.
	AppPatterns map[string][]string `yaml:"app_patterns"`
	// Sites maps a canonical site name to title fragments used for tab
	// matching.
	Sites map[string][]string `yaml:"sites"`
	// SiteURLs maps a canonical site name to its URL.
	SiteURLs map[string]string `yaml:"site_urls"`
	// Profiles maps a spoken profile alias to a browser profile
	// directory name.
	Profiles map[string]string `yaml:"profiles"`
	// ProfileBrowsers lists browsers that support profile selection.
	ProfileBrowsers []string `yaml:"profile_browsers"`
	// Browsers lists app aliases that are browsers.
	Browsers []string `yaml:"browsers"`
}

// Defaults returns the compiled-in catalog mirroring a stock GNOME
// desktop. A user-supplied YAML file is layered on top of it.
func Defaults() *Catalog {
	return &Catalog{
		Apps: map[string]string{
			"chrome":      "google-chrome",
			"chromium":    "chromium-browser",
			"firefox":     "firefox",
			"brave":       "brave-browser",
			"terminal":    "gnome-terminal",
			"calculator":  "gnome-calculator",
			"files":       "nautilus",
			"code":        "code",
			"vscode":      "code",
			"text editor": "gedit",
			"gedit":       "gedit",
			"settings":    "gnome-control-center",
			"music":       "rhythmbox",
			"videos":      "totem",
			"calendar":    "gnome-calendar",
			"clock":       "gnome-clocks",
		},
		AppPatterns: map[string][]string{
			"chrome":     {"chrome", "google-chrome"},
			"firefox":    {"firefox"},
			"code":       {"code", "code-oss"},
			"terminal":   {"gnome-terminal", "konsole", "xterm"},
			"files":      {"nautilus", "dolphin", "thunar"},
			"calculator": {"gnome-calculator", "kcalc"},
			"settings":   {"gnome-control-center", "systemsettings"},
			"music":      {"rhythmbox", "spotify"},
			"videos":     {"totem", "vlc"},
		},
		Sites: map[string][]string{
			"youtube":       {"youtube.com", "youtube"},
			"gmail":         {"gmail.com", "mail.google.com", "gmail"},
			"google":        {"google.com", "google.co"},
			"facebook":      {"facebook.com", "fb.com", "facebook"},
			"twitter":       {"twitter.com", "x.com", "twitter"},
			"github":        {"github.com", "github"},
			"reddit":        {"reddit.com", "reddit"},
			"linkedin":      {"linkedin.com", "linkedin"},
			"whatsapp":      {"web.whatsapp.com", "whatsapp"},
			"netflix":       {"netflix.com", "netflix"},
			"amazon":        {"amazon.com", "amazon.in", "amazon"},
			"stackoverflow": {"stackoverflow.com", "stack overflow"},
		},
		SiteURLs: map[string]string{
			"youtube":       "https://youtube.com",
			"gmail":         "https://gmail.com",
			"google":        "https://google.com",
			"facebook":      "https://facebook.com",
			"twitter":       "https://twitter.com",
			"github":        "https://github.com",
			"reddit":        "https://reddit.com",
			"linkedin":      "https://linkedin.com",
			"whatsapp":      "https://web.whatsapp.com",
			"netflix":       "https://netflix.com",
			"stackoverflow": "https://stackoverflow.com",
		},
		Profiles: map[string]string{
			"default":   "Default",
			"me":        "Default",
			"personal":  "Default",
			"profile 1": "Profile 1",
			"profile1":  "Profile 1",
			"1":         "Profile 1",
			"amaan":     "Profile 1",
			"profile 2": "Profile 2",
			"profile2":  "Profile 2",
			"2":         "Profile 2",
			"work":      "Profile 2",
		},
		ProfileBrowsers: []string{"chrome", "chromium", "brave"},
		Browsers:        []string{"chrome", "chromium", "firefox", "brave"},
	}
}

// Load returns the defaults overlaid with entries from path. An empty
// path keeps the defaults; a missing file at an explicit path is an
// error because a misconfigured catalog makes every workflow turn
// degenerate to a cancel.
func Load(path string) (*Catalog, error) {
	c := Defaults()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var overlay Catalog
		if err := yaml.Unmarshal(raw, &overlay); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		c.merge(&overlay)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) merge(o *Catalog) {
	for k, v := range o.Apps {
		c.Apps[normalize(k)] = v
	}
	for k, v := range o.AppPatterns {
		c.AppPatterns[normalize(k)] = v
	}
	for k, v := range o.Sites {
		c.Sites[normalize(k)] = v
	}
	for k, v := range o.SiteURLs {
		c.SiteURLs[normalize(k)] = v
	}
	for k, v := range o.Profiles {
		c.Profiles[normalize(k)] = v
	}
	if len(o.ProfileBrowsers) > 0 {
		c.ProfileBrowsers = o.ProfileBrowsers
	}
	if len(o.Browsers) > 0 {
		c.Browsers = o.Browsers
	}
}

// Validate enforces the startup-time fatal conditions: an alias table
// without browsers, sites or profiles cannot drive any workflow.
func (c *Catalog) Validate() error {
	if len(c.Apps) == 0 {
		return fmt.Errorf("catalog: app alias table is empty")
	}
	if len(c.Browsers) == 0 {
		return fmt.Errorf("catalog: browser list is empty")
	}
	for _, b := range c.Browsers {
		if _, ok := c.Apps[normalize(b)]; !ok {
			return fmt.Errorf("catalog: browser %q has no app command", b)
		}
	}
	if len(c.Sites) == 0 || len(c.SiteURLs) == 0 {
		return fmt.Errorf("catalog: site table is empty")
	}
	for site := range c.SiteURLs {
		if _, ok := c.Sites[site]; !ok {
			return fmt.Errorf("catalog: site %q has a URL but no title patterns", site)
		}
	}
	if len(c.Profiles) == 0 {
		return fmt.Errorf("catalog: profile alias table is empty")
	}
	return nil
}

// AppCommand resolves a spoken alias to a launch command by
// case-insensitive substring containment, longest alias first so
// "text editor" beats "editor"-style overlaps deterministically.
func (c *Catalog) AppCommand(spoken string) (alias, command string, ok bool) {
	alias, ok = matchLongest(c.appAliases(), spoken)
	if !ok {
		return "", "", false
	}
	return alias, c.Apps[alias], true
}

// SiteFor matches a spoken phrase against the site table. Longest
// literal alias wins; remaining ties resolve by table order (sorted
// alias list), which keeps matching deterministic for tests.
func (c *Catalog) SiteFor(spoken string) (string, bool) {
	return matchLongest(c.siteNames(), spoken)
}

// ProfileDir resolves a spoken profile alias to a profile directory.
func (c *Catalog) ProfileDir(spoken string) (string, bool) {
	alias, ok := matchLongest(c.profileAliases(), spoken)
	if !ok {
		return "", false
	}
	return c.Profiles[alias], true
}

// SiteURL returns the canonical URL for a site name.
func (c *Catalog) SiteURL(site string) (string, bool) {
	url, ok := c.SiteURLs[normalize(site)]
	return url, ok
}

// SitePatterns returns the title fragments for a site name.
func (c *Catalog) SitePatterns(site string) []string {
	return c.Sites[normalize(site)]
}

// SiteNames returns all site names sorted ascending.
func (c *Catalog) SiteNames() []string {
	return c.siteNames()
}

// IsBrowser reports whether the alias names a known browser.
func (c *Catalog) IsBrowser(alias string) bool {
	alias = normalize(alias)
	for _, b := range c.Browsers {
		if normalize(b) == alias {
			return true
		}
	}
	return false
}

// SupportsProfiles reports whether the browser has profile selection.
func (c *Catalog) SupportsProfiles(browser string) bool {
	browser = normalize(browser)
	for _, b := range c.ProfileBrowsers {
		if normalize(b) == browser {
			return true
		}
	}
	return false
}

// PatternsFor returns process-name fragments for grouping sampled
// windows. Unknown apps fall back to their own normalized name.
func (c *Catalog) PatternsFor(app string) []string {
	app = normalize(app)
	if pats, ok := c.AppPatterns[app]; ok {
		return pats
	}
	return []string{app}
}

// AppNames returns canonical pattern-table app names sorted ascending.
func (c *Catalog) AppNames() []string {
	names := make([]string, 0, len(c.AppPatterns))
	for name := range c.AppPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) appAliases() []string {
	out := make([]string, 0, len(c.Apps))
	for k := range c.Apps {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) siteNames() []string {
	out := make([]string, 0, len(c.Sites))
	for k := range c.Sites {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) profileAliases() []string {
	out := make([]string, 0, len(c.Profiles))
	for k := range c.Profiles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// matchLongest finds the alias contained in spoken text, preferring the
// longest literal match; ties fall to the earlier entry in the sorted
// alias list.
func matchLongest(aliases []string, spoken string) (string, bool) {
	spoken = normalize(spoken)
	best := ""
	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		if strings.Contains(spoken, alias) && len(alias) > len(best) {
			best = alias
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
