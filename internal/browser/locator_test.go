package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/amaanshakeel0998/Agent/internal/catalog"
	"github.com/amaanshakeel0998/Agent/internal/desktop"
)

type fakeSampler struct {
	records []desktop.WindowRecord
	err     error
}

func (f *fakeSampler) ListWindows(context.Context) ([]desktop.WindowRecord, error) {
	return f.records, f.err
}

type fakeWindows struct {
	activated []string
	closed    []string
	err       error
}

func (f *fakeWindows) Activate(_ context.Context, id string) error {
	f.activated = append(f.activated, id)
	return f.err
}

func (f *fakeWindows) Close(_ context.Context, id string) error {
	f.closed = append(f.closed, id)
	return f.err
}

func chromeRecords() []desktop.WindowRecord {
	return []desktop.WindowRecord{
		{ProcessName: "google-chrome", WindowTitle: "YouTube - Google Chrome", WindowID: "0x01"},
		{ProcessName: "google-chrome", WindowTitle: "Gmail - Google Chrome", WindowID: "0x02"},
		{ProcessName: "firefox", WindowTitle: "Reddit — Mozilla Firefox", WindowID: "0x03"},
		{ProcessName: "gnome-terminal-server", WindowTitle: "~", WindowID: "0x04"},
	}
}

func newTestLocator(s desktop.Sampler, w WindowActions) *Locator {
	return NewLocator(s, w, catalog.Defaults())
}

func TestListTabsAllBrowsers(t *testing.T) {
	l := newTestLocator(&fakeSampler{records: chromeRecords()}, &fakeWindows{})
	tabs, err := l.ListTabs(context.Background(), "")
	if err != nil {
		t.Fatalf("ListTabs() error = %v", err)
	}
	if len(tabs) != 3 {
		t.Fatalf("len(tabs) = %d, want 3", len(tabs))
	}
	if tabs[0].Title != "YouTube" {
		t.Fatalf("tabs[0].Title = %q, want suffix stripped %q", tabs[0].Title, "YouTube")
	}
	if tabs[0].MatchedSite != "youtube" {
		t.Fatalf("tabs[0].MatchedSite = %q, want %q", tabs[0].MatchedSite, "youtube")
	}
	if tabs[2].Browser != "firefox" {
		t.Fatalf("tabs[2].Browser = %q, want %q", tabs[2].Browser, "firefox")
	}
}

func TestListTabsFiltersByBrowser(t *testing.T) {
	l := newTestLocator(&fakeSampler{records: chromeRecords()}, &fakeWindows{})
	tabs, err := l.ListTabs(context.Background(), "firefox")
	if err != nil {
		t.Fatalf("ListTabs(firefox) error = %v", err)
	}
	if len(tabs) != 1 || tabs[0].Title != "Reddit" {
		t.Fatalf("tabs = %+v, want one Reddit tab", tabs)
	}
}

func TestListTabsBrowserNotRunning(t *testing.T) {
	l := newTestLocator(&fakeSampler{records: chromeRecords()}, &fakeWindows{})
	_, err := l.ListTabs(context.Background(), "brave")
	if !errors.Is(err, ErrBrowserNotRunning) {
		t.Fatalf("error = %v, want ErrBrowserNotRunning", err)
	}
}

func TestListTabsEmptyDesktopNoBrowserFilter(t *testing.T) {
	l := newTestLocator(&fakeSampler{}, &fakeWindows{})
	tabs, err := l.ListTabs(context.Background(), "")
	if err != nil {
		t.Fatalf("ListTabs() error = %v, want empty slice without error", err)
	}
	if len(tabs) != 0 {
		t.Fatalf("len(tabs) = %d, want 0", len(tabs))
	}
}

func TestFindTabNotFound(t *testing.T) {
	l := newTestLocator(&fakeSampler{records: chromeRecords()}, &fakeWindows{})
	_, err := l.FindTab(context.Background(), "", "netflix")
	if !errors.Is(err, ErrTabNotFound) {
		t.Fatalf("error = %v, want ErrTabNotFound", err)
	}
}

func TestFindTabPrefersFocused(t *testing.T) {
	records := []desktop.WindowRecord{
		{ProcessName: "google-chrome", WindowTitle: "YouTube - Music - Google Chrome", WindowID: "0x01"},
		{ProcessName: "google-chrome", WindowTitle: "YouTube - Lectures - Google Chrome", WindowID: "0x02", Focused: true},
	}
	l := newTestLocator(&fakeSampler{records: records}, &fakeWindows{})
	tab, err := l.FindTab(context.Background(), "", "youtube")
	if err != nil {
		t.Fatalf("FindTab() error = %v", err)
	}
	if tab.WindowID != "0x02" {
		t.Fatalf("WindowID = %q, want focused window 0x02", tab.WindowID)
	}
}

func TestFindTabFirstEnumeratedWithoutFocus(t *testing.T) {
	records := []desktop.WindowRecord{
		{ProcessName: "google-chrome", WindowTitle: "YouTube - A - Google Chrome", WindowID: "0x01"},
		{ProcessName: "google-chrome", WindowTitle: "YouTube - B - Google Chrome", WindowID: "0x02"},
	}
	l := newTestLocator(&fakeSampler{records: records}, &fakeWindows{})
	tab, err := l.FindTab(context.Background(), "", "youtube")
	if err != nil {
		t.Fatalf("FindTab() error = %v", err)
	}
	if tab.WindowID != "0x01" {
		t.Fatalf("WindowID = %q, want first enumerated 0x01", tab.WindowID)
	}
}

func TestSwitchToTabActivatesWindow(t *testing.T) {
	w := &fakeWindows{}
	l := newTestLocator(&fakeSampler{records: chromeRecords()}, w)
	tab, err := l.SwitchToTab(context.Background(), "", "gmail")
	if err != nil {
		t.Fatalf("SwitchToTab() error = %v", err)
	}
	if tab.WindowID != "0x02" {
		t.Fatalf("WindowID = %q, want 0x02", tab.WindowID)
	}
	if len(w.activated) != 1 || w.activated[0] != "0x02" {
		t.Fatalf("activated = %v, want [0x02]", w.activated)
	}
}

func TestCloseTabClosesWindow(t *testing.T) {
	w := &fakeWindows{}
	l := newTestLocator(&fakeSampler{records: chromeRecords()}, w)
	if _, err := l.CloseTab(context.Background(), "", "youtube"); err != nil {
		t.Fatalf("CloseTab() error = %v", err)
	}
	if len(w.closed) != 1 || w.closed[0] != "0x01" {
		t.Fatalf("closed = %v, want [0x01]", w.closed)
	}
}

func TestIsSiteOpen(t *testing.T) {
	l := newTestLocator(&fakeSampler{records: chromeRecords()}, &fakeWindows{})
	open, err := l.IsSiteOpen(context.Background(), "gmail")
	if err != nil || !open {
		t.Fatalf("IsSiteOpen(gmail) = (%v, %v), want (true, nil)", open, err)
	}
	open, err = l.IsSiteOpen(context.Background(), "netflix")
	if err != nil || open {
		t.Fatalf("IsSiteOpen(netflix) = (%v, %v), want (false, nil)", open, err)
	}
}

func TestIsSiteOpenPropagatesSamplerError(t *testing.T) {
	l := newTestLocator(&fakeSampler{err: desktop.ErrSamplingUnavailable}, &fakeWindows{})
	if _, err := l.IsSiteOpen(context.Background(), "gmail"); !errors.Is(err, desktop.ErrSamplingUnavailable) {
		t.Fatalf("error = %v, want ErrSamplingUnavailable", err)
	}
}

func TestTabCount(t *testing.T) {
	l := newTestLocator(&fakeSampler{records: chromeRecords()}, &fakeWindows{})
	n, err := l.TabCount(context.Background())
	if err != nil {
		t.Fatalf("TabCount() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("TabCount() = %d, want 3", n)
	}
}

func TestSummaryGroupsByBrowser(t *testing.T) {
	l := newTestLocator(&fakeSampler{records: chromeRecords()}, &fakeWindows{})
	got, err := l.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	want := "Open tabs. chrome: YouTube, Gmail. firefox: Reddit"
	if got != want {
		t.Fatalf("Summary() = %q, want %q", got, want)
	}
}

func TestSummaryEmptyDesktop(t *testing.T) {
	l := newTestLocator(&fakeSampler{}, &fakeWindows{})
	got, err := l.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if got != "No browser tabs are open" {
		t.Fatalf("Summary() = %q", got)
	}
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"YouTube - Google Chrome", "YouTube"},
		{"Reddit — Mozilla Firefox", "Reddit"},
		{"Docs - Brave", "Docs"},
		{"Untouched Title", "Untouched Title"},
	}
	for _, tc := range cases {
		if got := CleanTitle(tc.in); got != tc.want {
			t.Fatalf("CleanTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
