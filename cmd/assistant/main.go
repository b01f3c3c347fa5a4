package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amaanshakeel0998/Agent/internal/actions"
	"github.com/amaanshakeel0998/Agent/internal/browser"
	"github.com/amaanshakeel0998/Agent/internal/catalog"
	"github.com/amaanshakeel0998/Agent/internal/config"
	"github.com/amaanshakeel0998/Agent/internal/desktop"
	"github.com/amaanshakeel0998/Agent/internal/history"
	"github.com/amaanshakeel0998/Agent/internal/httpapi"
	"github.com/amaanshakeel0998/Agent/internal/memory"
	"github.com/amaanshakeel0998/Agent/internal/observability"
	"github.com/amaanshakeel0998/Agent/internal/protocol"
	"github.com/amaanshakeel0998/Agent/internal/router"
	"github.com/amaanshakeel0998/Agent/internal/speech"
	"github.com/amaanshakeel0998/Agent/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	window := observability.NewRouteWindow(256)

	ctx := context.Background()
	audit, err := history.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("history store init failed: %v", err)
	}
	defer audit.Close()

	store := memory.NewStore(cfg.ContextDepth)
	sampler := desktop.NewWMCtrlSampler(cfg.WMCtrlPath, cfg.XdotoolPath)
	windows := actions.NewWMCtrlWindows(cfg.WMCtrlPath)
	tabs := browser.NewLocator(sampler, windows, cat)
	launcher := actions.NewLauncher(cat)
	system := actions.NewSystem(cfg.ConfirmPowerActions)
	media := actions.NewMultimedia()

	engine := workflow.NewEngine(cat, launcher, store, cfg.WorkflowTurnCeiling, cfg.WorkflowStateTimeout)
	engine.UseTabs(tabs)
	defer engine.Close()

	hub := httpapi.NewHub()

	// Replies are spoken fire-and-forget; swap LogSpeaker for a real
	// TTS adapter to get audio.
	var speaker speech.Speaker = speech.LogSpeaker{}
	go func() {
		for ev := range hub.Subscribe() {
			if ev.Type == protocol.TypeAssistantReply {
				_ = speaker.Speak(ev.Text, speech.Language(ev.Language))
			}
		}
	}()
	engine.OnChange(func(sess workflow.Session) {
		hub.Publish(protocol.Event{
			Type:   protocol.TypeWorkflowTransition,
			State:  string(sess.State),
			Detail: sess.Browser,
			TS:     time.Now().UTC(),
		})
		if sess.Active() {
			metrics.ActiveWorkflow.Set(1)
		} else {
			metrics.ActiveWorkflow.Set(0)
		}
	})

	commands := router.New(router.Deps{
		Catalog:         cat,
		Store:           store,
		Engine:          engine,
		Sampler:         sampler,
		Tabs:            tabs,
		Launcher:        launcher,
		System:          system,
		Media:           media,
		Windows:         windows,
		Audit:           audit,
		Metrics:         metrics,
		Window:          window,
		Publish:         hub.Publish,
		DefaultLanguage: speech.Language(cfg.DefaultLanguage),
	})

	api := httpapi.New(cfg, cat, commands, store, engine, sampler, tabs, audit, window, hub)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	engine.StartJanitor(5 * time.Second)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
