package desktop

import (
	"fmt"
	"sort"
	"strings"

	"github.com/amaanshakeel0998/Agent/internal/catalog"
)

// AppCount groups sampled windows for one known app. Windows and
// processes are reported separately: multi-window apps share one
// process, so the two counts legitimately differ.
type AppCount struct {
	Name      string `json:"name"`
	Windows   int    `json:"windows"`
	Processes int    `json:"processes"`
}

// GroupByApp buckets records into known apps using the catalog's
// process-name patterns. Duplicate windows from one process are kept;
// grouping is this layer's job, not the sampler's.
func GroupByApp(records []WindowRecord, cat *catalog.Catalog) []AppCount {
	type bucket struct {
		windows int
		pids    map[int]struct{}
	}
	buckets := make(map[string]*bucket)

	for _, rec := range records {
		name := strings.ToLower(rec.ProcessName)
		for _, app := range cat.AppNames() {
			if !matchesAny(name, cat.PatternsFor(app)) {
				continue
			}
			b, ok := buckets[app]
			if !ok {
				b = &bucket{pids: make(map[int]struct{})}
				buckets[app] = b
			}
			b.windows++
			if rec.PID > 0 {
				b.pids[rec.PID] = struct{}{}
			}
			break
		}
	}

	out := make([]AppCount, 0, len(buckets))
	for app, b := range buckets {
		procs := len(b.pids)
		if procs == 0 && b.windows > 0 {
			procs = 1
		}
		out = append(out, AppCount{Name: app, Windows: b.windows, Processes: procs})
	}
	// Descending window count, ties by name ascending: deterministic.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Windows != out[j].Windows {
			return out[i].Windows > out[j].Windows
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CountWindows counts distinct windows matching the app alias.
func CountWindows(records []WindowRecord, cat *catalog.Catalog, app string) int {
	n := 0
	pats := cat.PatternsFor(app)
	for _, rec := range records {
		if matchesAny(strings.ToLower(rec.ProcessName), pats) {
			n++
		}
	}
	return n
}

// CountProcesses counts distinct PIDs matching the app alias.
func CountProcesses(records []WindowRecord, cat *catalog.Catalog, app string) int {
	pats := cat.PatternsFor(app)
	pids := make(map[int]struct{})
	for _, rec := range records {
		if !matchesAny(strings.ToLower(rec.ProcessName), pats) {
			continue
		}
		if rec.PID > 0 {
			pids[rec.PID] = struct{}{}
		}
	}
	return len(pids)
}

// Summarize renders a spoken-friendly enumeration of running apps.
func Summarize(records []WindowRecord, cat *catalog.Catalog) string {
	counts := GroupByApp(records, cat)
	if len(counts) == 0 {
		return "No applications detected"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d running application%s: ", len(counts), plural(len(counts)))
	for i, c := range counts {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s with %d window%s and %d process%s",
			c.Name, c.Windows, plural(c.Windows), c.Processes, pluralES(c.Processes))
	}
	return b.String()
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(name, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralES(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}
