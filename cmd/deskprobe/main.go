package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/amaanshakeel0998/Agent/internal/actions"
	"github.com/amaanshakeel0998/Agent/internal/browser"
	"github.com/amaanshakeel0998/Agent/internal/catalog"
	"github.com/amaanshakeel0998/Agent/internal/desktop"
)

// deskprobe samples the desktop once and prints what the assistant
// would see: grouped apps, raw windows and browser tabs. Useful for
// checking wmctrl output parsing on a new window manager.

type options struct {
	wmctrlPath   string
	xdotoolPath  string
	catalogPath  string
	browserName  string
	jsonOut      bool
	probeTimeout time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.wmctrlPath, "wmctrl", "wmctrl", "path to the wmctrl binary")
	flag.StringVar(&opts.xdotoolPath, "xdotool", "xdotool", "path to the xdotool binary")
	flag.StringVar(&opts.catalogPath, "catalog", "", "optional YAML catalog overlay")
	flag.StringVar(&opts.browserName, "browser", "", "limit tab listing to one browser")
	flag.BoolVar(&opts.jsonOut, "json", false, "emit JSON instead of text")
	flag.DurationVar(&opts.probeTimeout, "timeout", 5*time.Second, "overall probe timeout")
	flag.Parse()

	cat, err := catalog.Load(opts.catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.probeTimeout)
	defer cancel()

	sampler := desktop.NewWMCtrlSampler(opts.wmctrlPath, opts.xdotoolPath)
	records, err := sampler.ListWindows(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sampling failed: %v\n", err)
		os.Exit(1)
	}

	windows := actions.NewWMCtrlWindows(opts.wmctrlPath)
	locator := browser.NewLocator(sampler, windows, cat)
	tabs, tabErr := locator.ListTabs(ctx, opts.browserName)

	if opts.jsonOut {
		out := map[string]any{
			"apps":    desktop.GroupByApp(records, cat),
			"windows": records,
			"tabs":    tabs,
		}
		if tabErr != nil {
			out["tab_error"] = tabErr.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Println(desktop.Summarize(records, cat))
	fmt.Println()
	fmt.Printf("%-12s %-8s %-30s %s\n", "WINDOW", "PID", "PROCESS", "TITLE")
	for _, rec := range records {
		marker := " "
		if rec.Focused {
			marker = "*"
		}
		fmt.Printf("%-12s %-8d %-30s %s%s\n", rec.WindowID, rec.PID, rec.ProcessName, marker, rec.WindowTitle)
	}

	fmt.Println()
	if tabErr != nil {
		fmt.Printf("tabs: %v\n", tabErr)
		return
	}
	if len(tabs) == 0 {
		fmt.Println("tabs: none")
		return
	}
	for _, tab := range tabs {
		site := tab.MatchedSite
		if site == "" {
			site = "-"
		}
		fmt.Printf("tab [%s] %-15s %s\n", tab.Browser, site, tab.Title)
	}
}
