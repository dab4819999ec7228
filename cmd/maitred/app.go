package main

import (
	"fmt"
	"os"
	"path/filepath"

	"maitred/internal/compose"
	"maitred/internal/config"
	"maitred/internal/dispatch"
	"maitred/internal/memory"
	"maitred/internal/nlu"
	"maitred/internal/orchestrator"
	"maitred/internal/session"
	"maitred/internal/slots"
	"maitred/internal/specialists"
	"maitred/internal/store"
	"maitred/internal/types"
)

// app bundles the wired components for a CLI invocation.
type app struct {
	cfg          *config.Config
	store        *store.Store
	orchestrator *orchestrator.Orchestrator
}

// newApp opens the store and wires the full turn pipeline from config.
func newApp(cfg *config.Config) (*app, error) {
	if dir := filepath.Dir(cfg.Store.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	st, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := st.Seed(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	client, err := buildClient(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	generator := nlu.NewGenerator(client)

	menu := specialists.NewMenu(st)
	order := specialists.NewOrder(st)
	reservation := specialists.NewReservation(st)
	escalation := specialists.NewEscalation(generator)
	fallback := specialists.NewFallback(generator)

	dispatcher := dispatch.New(map[types.RouteTag]dispatch.Capability{
		types.RouteMenu:        menu.Handle,
		types.RouteOrder:       order.Handle,
		types.RouteReservation: reservation.Handle,
		types.RouteEscalation:  escalation.Handle,
		types.RouteFallback:    fallback.Handle,
	}, dispatch.Config{
		MaxRetries: cfg.Dispatcher.MaxRetries,
		BaseDelay:  cfg.GetBaseDelay(),
	})

	mem := memory.NewService(st)
	if cfg.Memory.DisableNameResolution {
		mem.DisableNameResolution()
	}

	orch := orchestrator.New(
		session.NewManager(),
		nlu.NewClassifier(client),
		slots.NewEngine(nlu.NewExtractor(client)),
		dispatcher,
		mem,
		compose.NewComposer(generator),
		st,
	)

	return &app{cfg: cfg, store: st, orchestrator: orch}, nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// buildClient constructs the configured LLM client.
func buildClient(cfg *config.Config) (nlu.Client, error) {
	switch cfg.LLM.Provider {
	case "openai":
		c := nlu.DefaultOpenAIConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			c.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			c.BaseURL = cfg.LLM.BaseURL
		}
		c.Timeout = cfg.GetLLMTimeout()
		return nlu.NewOpenAIClientWithConfig(c), nil
	case "anthropic":
		c := nlu.DefaultAnthropicConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			c.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			c.BaseURL = cfg.LLM.BaseURL
		}
		c.Timeout = cfg.GetLLMTimeout()
		return nlu.NewAnthropicClientWithConfig(c), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
