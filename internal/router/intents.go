package router

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/amaanshakeel0998/Agent/internal/browser"
	"github.com/amaanshakeel0998/Agent/internal/desktop"
	"github.com/amaanshakeel0998/Agent/internal/memory"
	"github.com/amaanshakeel0998/Agent/internal/speech"
	"github.com/amaanshakeel0998/Agent/internal/workflow"
)

// intent is one row of the ordered dispatch table. The first handler
// to claim an utterance wins; order is load-bearing, so more specific
// intents sit above broader ones.
type intent struct {
	name   string
	handle func(ctx context.Context, norm, raw string, lang speech.Language) (Result, bool)
}

func (r *Router) intentTable() []intent {
	return []intent{
		// A live workflow owns every utterance; nothing may fall through
		// past it, or a slot value could trigger an unrelated command.
		{"workflow_turn", r.handleWorkflowTurn},
		{"exit", r.handleExit},
		{"forget", r.handleForget},
		{"app_summary", r.handleAppSummary},
		{"tab_list", r.handleTabList},
		{"tab_query", r.handleTabQuery},
		{"app_count", r.handleAppCount},
		{"search", r.handleSearch},
		{"workflow_start", r.handleWorkflowStart},
		{"tab_switch", r.handleTabSwitch},
		{"tab_close", r.handleTabClose},
		{"open_app", r.handleOpenApp},
		{"open_site", r.handleOpenSite},
		{"close_app", r.handleCloseApp},
		{"time", r.handleTime},
		{"date", r.handleDate},
		{"cancel_power", r.handleCancelPower},
		{"shutdown", r.handleShutdown},
		{"reboot", r.handleReboot},
		{"lock_screen", r.handleLockScreen},
		{"screenshot", r.handleScreenshot},
		{"brightness", r.handleBrightness},
		{"wifi", r.handleWifi},
		{"bluetooth", r.handleBluetooth},
		{"battery", r.handleBattery},
		{"disk", r.handleDisk},
		{"memory_usage", r.handleMemoryUsage},
		{"now_playing", r.handleNowPlaying},
		{"media_next", r.handleMediaNext},
		{"media_previous", r.handleMediaPrevious},
		{"volume", r.handleVolume},
		{"play_pause", r.handlePlayPause},
		{"help", r.handleHelp},
	}
}

var exitKeywords = []string{"exit", "quit", "goodbye", "good bye", "khuda hafiz", "band karo"}

// Device words that turn "turn off X" into a device command, not an
// exit request.
var exitExceptions = []string{"wifi", "wi-fi", "bluetooth", "volume", "music", "screen", "light"}

func (r *Router) handleExit(_ context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	isExit := containsAny(norm, exitKeywords)
	if !isExit && strings.Contains(norm, "turn off") && !containsAny(norm, exitExceptions) {
		isExit = true
	}
	if !isExit {
		return Result{}, false
	}
	return Result{Handled: true, Response: speech.Goodbye(lang), Exit: true}, true
}

func (r *Router) handleWorkflowTurn(ctx context.Context, _, raw string, lang speech.Language) (Result, bool) {
	if r.engine == nil || !r.engine.Active() {
		return Result{}, false
	}
	if r.metrics != nil {
		r.metrics.WorkflowTurns.Inc()
	}
	out, err := r.engine.Handle(ctx, raw, lang)
	if errors.Is(err, workflow.ErrNoWorkflow) {
		return Result{}, false
	}
	if err != nil {
		r.failure("workflow")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: out.Response}, true
}

func (r *Router) handleForget(_ context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if !containsAny(norm, []string{"forget", "clear memory", "clear context", "bhool jao"}) {
		return Result{}, false
	}
	if r.store != nil {
		r.store.Clear()
	}
	return Result{Handled: true, Response: speech.Forgot(lang)}, true
}

func (r *Router) handleAppSummary(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.sampler == nil {
		return Result{}, false
	}
	if !containsAny(norm, []string{
		"what apps", "what applications", "which apps", "which applications",
		"running apps", "apps are open", "applications are open",
		"what's running", "whats running", "what is running",
	}) {
		return Result{}, false
	}
	records, err := r.sampler.ListWindows(ctx)
	if err != nil {
		r.samplerFailure()
		return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
	}
	return Result{Handled: true, Response: desktop.Summarize(records, r.cat)}, true
}

func (r *Router) handleTabList(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.tabs == nil {
		return Result{}, false
	}
	countOnly := strings.Contains(norm, "how many tabs")
	listing := containsAny(norm, []string{"list tabs", "what tabs", "which tabs", "open tabs"})
	if !countOnly && !listing {
		return Result{}, false
	}
	if countOnly {
		n, err := r.tabs.TabCount(ctx)
		if err != nil {
			r.samplerFailure()
			return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
		}
		if n == 0 {
			return Result{Handled: true, Response: "No browser tabs are open"}, true
		}
		return Result{Handled: true, Response: fmt.Sprintf("You have %d browser tab%s open", n, pluralS(n))}, true
	}
	summary, err := r.tabs.Summary(ctx)
	if err != nil {
		r.samplerFailure()
		return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
	}
	return Result{Handled: true, Response: summary}, true
}

func (r *Router) handleTabQuery(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.tabs == nil || !strings.HasPrefix(norm, "is ") || !strings.Contains(norm, " open") {
		return Result{}, false
	}
	subject := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(norm, "is "), "open"))
	site, ok := r.cat.SiteFor(subject)
	if !ok {
		return Result{}, false
	}
	open, err := r.tabs.IsSiteOpen(ctx, site)
	if err != nil {
		r.samplerFailure()
		return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
	}
	if !open {
		return Result{Handled: true, Response: speech.NotSeenOpen(lang, site)}, true
	}
	return Result{Handled: true, Response: fmt.Sprintf("Yes, %s is open", site)}, true
}

func (r *Router) handleAppCount(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.sampler == nil || !strings.Contains(norm, "how many") {
		return Result{}, false
	}
	if !containsAny(norm, []string{"window", "instance", "process"}) {
		return Result{}, false
	}
	alias, _, ok := r.cat.AppCommand(norm)
	if !ok {
		return Result{}, false
	}
	records, err := r.sampler.ListWindows(ctx)
	if err != nil {
		r.samplerFailure()
		return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
	}
	windows := desktop.CountWindows(records, r.cat, alias)
	procs := desktop.CountProcesses(records, r.cat, alias)
	if windows == 0 {
		return Result{Handled: true, Response: speech.NotSeenOpen(lang, alias)}, true
	}
	return Result{Handled: true, Response: fmt.Sprintf("%s has %d window%s and %d process%s",
		alias, windows, pluralS(windows), procs, pluralES(procs))}, true
}

func (r *Router) handleSearch(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.launcher == nil {
		return Result{}, false
	}
	query, ok := extractSearch(norm)
	if !ok {
		return Result{}, false
	}
	platform := ""
	for _, p := range []string{"youtube", "google"} {
		for _, marker := range []string{" on " + p, " in " + p} {
			if strings.Contains(query, marker) {
				platform = p
				query = strings.TrimSpace(strings.Replace(query, marker, "", 1))
			}
		}
	}
	if query == "" {
		return Result{Handled: true, Response: speech.WhatToSearch(lang)}, true
	}
	// No context entry for searches; a query string is not a referent
	// that "close it" or tab matching can do anything with.
	if _, err := r.launcher.Search(ctx, platform, query); err != nil {
		r.failure("search")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: speech.Searching(lang, query)}, true
}

func (r *Router) handleWorkflowStart(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.engine == nil || !hasOpenVerb(norm) {
		return Result{}, false
	}
	alias, _, ok := r.cat.AppCommand(norm)
	if !ok || !r.cat.IsBrowser(alias) {
		return Result{}, false
	}
	preset := ""
	if strings.Contains(norm, "profile") {
		if dir, found := r.cat.ProfileDir(norm); found {
			preset = dir
		} else {
			preset = norm // let the engine report the unknown profile
		}
	} else if strings.Contains(norm, "amaan") {
		preset = "amaan"
	}
	out, err := r.engine.Start(ctx, alias, preset, lang)
	if errors.Is(err, workflow.ErrWorkflowActive) {
		// Reject and consume: the utterance is not queued for later.
		return Result{Handled: false, Response: speech.WorkflowBusy(lang)}, true
	}
	if err != nil {
		r.failure("workflow")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: out.Response}, true
}

func (r *Router) handleTabSwitch(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.tabs == nil {
		return Result{}, false
	}
	target := ""
	for _, prefix := range []string{"switch to ", "go to "} {
		if strings.HasPrefix(norm, prefix) {
			target = strings.TrimSpace(strings.TrimPrefix(norm, prefix))
			break
		}
	}
	if target == "" {
		return Result{}, false
	}
	target = strings.TrimSuffix(target, " tab")
	site, ok := r.cat.SiteFor(target)
	if !ok {
		return Result{}, false
	}
	tab, err := r.tabs.SwitchToTab(ctx, "", site)
	switch {
	case err == nil:
		r.rememberWindow(site, tab)
		return Result{Handled: true, Response: speech.SwitchedTo(lang, tab.Title)}, true
	case errors.Is(err, browser.ErrTabNotFound), errors.Is(err, browser.ErrBrowserNotRunning):
		return Result{Handled: true, Response: speech.NotSeenOpen(lang, site)}, true
	case errors.Is(err, desktop.ErrSamplingUnavailable):
		r.samplerFailure()
		return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
	default:
		r.failure("tab_switch")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
}

func (r *Router) handleTabClose(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.tabs == nil || !strings.Contains(norm, "close") || !strings.Contains(norm, "tab") {
		return Result{}, false
	}
	subject := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(norm, "close")), "tab")
	site, ok := r.cat.SiteFor(subject)
	if !ok {
		// "close that tab" falls back to the most recent window entry.
		if r.store != nil {
			if e, err := r.store.Resolve(memory.KindWindow); err == nil {
				site = e.Identifier
				ok = true
			}
		}
		if !ok {
			return Result{Handled: true, Response: speech.UnknownReference(lang)}, true
		}
	}
	tab, err := r.tabs.CloseTab(ctx, "", site)
	switch {
	case err == nil:
		return Result{Handled: true, Response: speech.Closed(lang, tab.Title)}, true
	case errors.Is(err, browser.ErrTabNotFound), errors.Is(err, browser.ErrBrowserNotRunning):
		return Result{Handled: true, Response: speech.NotSeenOpen(lang, site)}, true
	case errors.Is(err, desktop.ErrSamplingUnavailable):
		r.samplerFailure()
		return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
	default:
		r.failure("tab_close")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
}

func (r *Router) handleOpenApp(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.launcher == nil || !hasOpenVerb(norm) {
		return Result{}, false
	}
	alias, _, ok := r.cat.AppCommand(norm)
	if !ok {
		return Result{}, false
	}
	launched, pid, err := r.launcher.LaunchApp(ctx, alias)
	if err != nil {
		r.failure("launch")
		return Result{Handled: false, Response: speech.NotInstalled(lang, alias)}, true
	}
	r.rememberApp(launched, pid)
	return Result{Handled: true, Response: speech.Opening(lang, launched)}, true
}

func (r *Router) handleOpenSite(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.launcher == nil || !hasOpenVerb(norm) {
		return Result{}, false
	}
	site, ok := r.cat.SiteFor(norm)
	if !ok {
		return Result{}, false
	}
	// Switch instead of opening a duplicate when a tab already shows it.
	if r.tabs != nil {
		if tab, err := r.tabs.SwitchToTab(ctx, "", site); err == nil {
			r.rememberWindow(site, tab)
			return Result{Handled: true, Response: speech.SwitchedTo(lang, tab.Title)}, true
		}
	}
	target, err := r.launcher.OpenSite(ctx, site)
	if err != nil {
		r.failure("open_site")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	r.rememberSite(site, target)
	return Result{Handled: true, Response: speech.Opening(lang, site)}, true
}

func (r *Router) handleCloseApp(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.windows == nil || !strings.HasPrefix(norm, "close") {
		return Result{}, false
	}
	target := norm
	if r.store != nil {
		if rewritten, changed := r.store.RewriteReferences(norm); changed {
			target = rewritten
		}
	}
	alias, command, ok := r.cat.AppCommand(target)
	if ok {
		parts := strings.Fields(command)
		if err := r.windows.CloseByName(ctx, parts[0]); err != nil {
			r.failure("close")
			return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
		}
		return Result{Handled: true, Response: speech.Closed(lang, alias)}, true
	}

	// No alias in the utterance: fall back to the most recent context
	// entry of any kind.
	if r.store == nil {
		return Result{Handled: true, Response: speech.UnknownReference(lang)}, true
	}
	entry, err := r.store.ResolvePreferring(memory.KindApp)
	if err != nil {
		return Result{Handled: true, Response: speech.UnknownReference(lang)}, true
	}
	if pidRaw, ok := entry.Metadata["pid"]; ok {
		if pid, convErr := strconv.Atoi(pidRaw); convErr == nil {
			if err := r.windows.CloseByPID(ctx, pid); err == nil {
				return Result{Handled: true, Response: speech.Closed(lang, entry.Identifier)}, true
			}
		}
	}
	if err := r.windows.CloseByName(ctx, entry.Identifier); err != nil {
		r.failure("close")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: speech.Closed(lang, entry.Identifier)}, true
}

func (r *Router) handleTime(_ context.Context, norm, _ string, _ speech.Language) (Result, bool) {
	if !containsAny(norm, []string{"what time", "the time", "time is it"}) {
		return Result{}, false
	}
	return Result{Handled: true, Response: "It's " + r.now().Format("3:04 PM")}, true
}

func (r *Router) handleDate(_ context.Context, norm, _ string, _ speech.Language) (Result, bool) {
	if !containsAny(norm, []string{"what date", "the date", "today's date", "what day"}) {
		return Result{}, false
	}
	return Result{Handled: true, Response: "Today is " + r.now().Format("Monday, January 2")}, true
}

func (r *Router) handleCancelPower(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !strings.Contains(norm, "cancel") {
		return Result{}, false
	}
	if !containsAny(norm, []string{"shutdown", "shut down", "restart", "reboot"}) {
		return Result{}, false
	}
	if err := r.system.CancelShutdown(ctx); err != nil {
		r.failure("power")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: "Okay, cancelled"}, true
}

func (r *Router) handleShutdown(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !containsAny(norm, []string{"shutdown", "shut down", "power off"}) {
		return Result{}, false
	}
	confirmed := strings.Contains(norm, "confirm")
	if err := r.system.Shutdown(ctx, confirmed); err != nil {
		if !confirmed {
			return Result{Handled: true, Response: speech.ConfirmPower(lang, "shutdown")}, true
		}
		r.failure("power")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: "Shutting down in one minute"}, true
}

func (r *Router) handleReboot(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !containsAny(norm, []string{"reboot", "restart the computer", "restart the system", "restart the machine"}) {
		return Result{}, false
	}
	confirmed := strings.Contains(norm, "confirm")
	if err := r.system.Reboot(ctx, confirmed); err != nil {
		if !confirmed {
			return Result{Handled: true, Response: speech.ConfirmPower(lang, "restart")}, true
		}
		r.failure("power")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: "Restarting in one minute"}, true
}

func (r *Router) handleLockScreen(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !strings.Contains(norm, "lock") {
		return Result{}, false
	}
	if err := r.system.LockScreen(ctx); err != nil {
		r.failure("lock")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: "Locking the screen"}, true
}

func (r *Router) handleScreenshot(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.media == nil || !containsAny(norm, []string{"screenshot", "screen shot"}) {
		return Result{}, false
	}
	file, err := r.media.Screenshot(ctx)
	if err != nil {
		r.failure("screenshot")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: "Screenshot saved to " + file}, true
}

func (r *Router) handleBrightness(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !strings.Contains(norm, "brightness") {
		return Result{}, false
	}
	var err error
	var response string
	if containsAny(norm, []string{"up", "increase", "raise", "higher"}) {
		err = r.system.BrightnessUp(ctx)
		response = "Increasing brightness"
	} else {
		err = r.system.BrightnessDown(ctx)
		response = "Decreasing brightness"
	}
	if err != nil {
		r.failure("brightness")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: response}, true
}

func (r *Router) handleWifi(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !containsAny(norm, []string{"wifi", "wi-fi", "wireless"}) {
		return Result{}, false
	}
	switch {
	case containsAny(norm, []string{"on", "enable", "connect"}):
		if err := r.system.WifiOn(ctx); err != nil {
			r.failure("wifi")
			return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
		}
		return Result{Handled: true, Response: "WiFi turned on"}, true
	case containsAny(norm, []string{"off", "disable"}):
		if err := r.system.WifiOff(ctx); err != nil {
			r.failure("wifi")
			return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
		}
		return Result{Handled: true, Response: "WiFi turned off"}, true
	default:
		status, err := r.system.WifiStatus(ctx)
		if err != nil {
			r.failure("wifi")
			return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
		}
		return Result{Handled: true, Response: "WiFi is " + status}, true
	}
}

func (r *Router) handleBluetooth(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !strings.Contains(norm, "bluetooth") {
		return Result{}, false
	}
	if containsAny(norm, []string{"off", "disable"}) {
		if err := r.system.BluetoothOff(ctx); err != nil {
			r.failure("bluetooth")
			return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
		}
		return Result{Handled: true, Response: "Bluetooth turned off"}, true
	}
	if err := r.system.BluetoothOn(ctx); err != nil {
		r.failure("bluetooth")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: "Bluetooth turned on"}, true
}

func (r *Router) handleBattery(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !strings.Contains(norm, "battery") {
		return Result{}, false
	}
	level, err := r.system.BatteryLevel(ctx)
	if err != nil {
		r.failure("battery")
		return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
	}
	return Result{Handled: true, Response: fmt.Sprintf("Battery is at %d percent", level)}, true
}

func (r *Router) handleDisk(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !containsAny(norm, []string{"disk", "storage"}) {
		return Result{}, false
	}
	usage, err := r.system.DiskUsage(ctx)
	if err != nil {
		r.failure("disk")
		return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
	}
	return Result{Handled: true, Response: "Disk usage: " + usage}, true
}

func (r *Router) handleMemoryUsage(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.system == nil || !containsAny(norm, []string{"memory usage", "ram", "how much memory"}) {
		return Result{}, false
	}
	usage, err := r.system.MemoryUsage(ctx)
	if err != nil {
		r.failure("memory")
		return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
	}
	return Result{Handled: true, Response: "Memory usage: " + usage}, true
}

func (r *Router) handleNowPlaying(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.media == nil || !containsAny(norm, []string{"what's playing", "whats playing", "current song", "which song", "what song"}) {
		return Result{}, false
	}
	track, err := r.media.CurrentTrack(ctx)
	if err != nil {
		return Result{Handled: true, Response: "Nothing is playing right now"}, true
	}
	return Result{Handled: true, Response: "Now playing: " + track}, true
}

func (r *Router) handleMediaNext(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.media == nil || !containsAny(norm, []string{"next track", "next song", "skip this", "skip song", "skip track"}) {
		return Result{}, false
	}
	if err := r.media.NextTrack(ctx); err != nil {
		r.failure("media")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: "Skipping to the next track"}, true
}

func (r *Router) handleMediaPrevious(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.media == nil || !containsAny(norm, []string{"previous track", "previous song", "last song"}) {
		return Result{}, false
	}
	if err := r.media.PreviousTrack(ctx); err != nil {
		r.failure("media")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: "Going back a track"}, true
}

func (r *Router) handleVolume(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.media == nil {
		return Result{}, false
	}
	switch {
	case containsAny(norm, []string{"mute", "unmute", "silence"}):
		if err := r.media.Mute(ctx); err != nil {
			r.failure("volume")
			return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
		}
		return Result{Handled: true, Response: "Toggled mute"}, true
	case !strings.Contains(norm, "volume"):
		return Result{}, false
	case containsAny(norm, []string{"up", "increase", "raise", "louder"}):
		if err := r.media.VolumeUp(ctx); err != nil {
			r.failure("volume")
			return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
		}
		return Result{Handled: true, Response: "Volume up"}, true
	case containsAny(norm, []string{"down", "decrease", "lower", "quieter"}):
		if err := r.media.VolumeDown(ctx); err != nil {
			r.failure("volume")
			return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
		}
		return Result{Handled: true, Response: "Volume down"}, true
	default:
		if percent, ok := extractPercent(norm); ok {
			if err := r.media.SetVolume(ctx, percent); err != nil {
				r.failure("volume")
				return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
			}
			return Result{Handled: true, Response: fmt.Sprintf("Volume set to %d percent", percent)}, true
		}
		level, err := r.media.Volume(ctx)
		if err != nil {
			return Result{Handled: false, Response: speech.CannotCheck(lang)}, true
		}
		return Result{Handled: true, Response: fmt.Sprintf("Volume is at %d percent", level)}, true
	}
}

func (r *Router) handlePlayPause(ctx context.Context, norm, _ string, lang speech.Language) (Result, bool) {
	if r.media == nil || !containsAny(norm, []string{"play", "pause", "resume"}) {
		return Result{}, false
	}
	if err := r.media.PlayPause(ctx); err != nil {
		r.failure("media")
		return Result{Handled: false, Response: speech.ActionFailed(lang)}, true
	}
	return Result{Handled: true, Response: "Okay"}, true
}

func (r *Router) handleHelp(_ context.Context, norm, _ string, _ speech.Language) (Result, bool) {
	if !containsAny(norm, []string{"help", "what can you do"}) {
		return Result{}, false
	}
	return Result{Handled: true, Response: "I can open apps and websites, manage browser tabs, " +
		"walk you through opening a browser profile, check what's running, " +
		"and control volume, brightness, WiFi and media playback"}, true
}

func (r *Router) rememberWindow(site string, tab browser.Tab) {
	if r.store == nil {
		return
	}
	r.store.Remember(memory.KindWindow, site, map[string]string{
		"window_id": tab.WindowID,
		"title":     tab.Title,
	})
}

func hasOpenVerb(norm string) bool {
	return containsAny(norm, []string{"open", "launch", "start", "kholo"})
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func extractSearch(norm string) (string, bool) {
	for _, prefix := range []string{"search for ", "search ", "look up ", "look for "} {
		if strings.HasPrefix(norm, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(norm, prefix)), true
		}
	}
	if norm == "search" {
		return "", true
	}
	return "", false
}

func extractPercent(norm string) (int, bool) {
	for _, f := range strings.Fields(strings.ReplaceAll(norm, "%", " ")) {
		if n, err := strconv.Atoi(f); err == nil && n >= 0 && n <= 100 {
			return n, true
		}
	}
	return 0, false
}

func pluralS(n int) string {
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
