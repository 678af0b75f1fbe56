package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xelth-com/shopreply/internal/ai"
	"github.com/xelth-com/shopreply/internal/commerce"
	"github.com/xelth-com/shopreply/internal/commerce/odoo"
	"github.com/xelth-com/shopreply/internal/commerce/shopify"
	"github.com/xelth-com/shopreply/internal/config"
	"github.com/xelth-com/shopreply/internal/services/intent"
	"github.com/xelth-com/shopreply/internal/services/ordercontext"
	"github.com/xelth-com/shopreply/internal/services/reply"
)

// app holds the long-lived pieces shared by serve and draft
type app struct {
	cfg      *config.Config
	llm      *ai.GeminiClient
	pipeline *reply.Pipeline
}

func (a *app) Close() {
	if a.llm != nil {
		a.llm.Close()
	}
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}

	llm, err := ai.NewGeminiClient(ctx, ai.GeminiConfig{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Timeout:     cfg.Gemini.Timeout,
		Temperature: cfg.Gemini.Temperature,
	})
	if err != nil {
		return nil, err
	}

	registry := buildRegistry(cfg.Commerce)
	var backend commerce.Backend
	if b, err := registry.Get(cfg.Commerce.Backend); err == nil {
		backend = b
		log.Printf("✅ Commerce: using %s backend", cfg.Commerce.Backend)
	} else {
		log.Printf("⚠️ Commerce: %v, replies will be drafted without order context", err)
	}

	pipeline := reply.NewPipeline(
		intent.NewClassifier(llm),
		ordercontext.NewResolver(backend, cfg.Commerce.Timeout),
		reply.NewComposer(llm, policy),
	)

	return &app{cfg: cfg, llm: llm, pipeline: pipeline}, nil
}

// buildRegistry registers every backend that has credentials configured
func buildRegistry(cfg config.CommerceConfig) *commerce.Registry {
	registry := commerce.NewRegistry()

	if cfg.Shopify.ShopURL != "" {
		client, err := shopify.NewClient(shopify.Config{
			ShopURL:     cfg.Shopify.ShopURL,
			AccessToken: cfg.Shopify.AccessToken,
			APIVersion:  cfg.Shopify.APIVersion,
			Timeout:     cfg.Timeout,
		})
		register(registry, client, err)
	}

	if cfg.Odoo.URL != "" {
		backend, err := odoo.NewBackend(odoo.Config{
			URL:      cfg.Odoo.URL,
			Database: cfg.Odoo.Database,
			Username: cfg.Odoo.Username,
			Password: cfg.Odoo.Password,
			Timeout:  cfg.Timeout,
			Location: shopLocation(cfg.Odoo.Timezone),
		})
		register(registry, backend, err)
	}

	return registry
}

// shopLocation resolves ODOO_TIMEZONE, falling back to UTC
func shopLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("⚠️ Commerce: unknown ODOO_TIMEZONE %q, using UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

func register(registry *commerce.Registry, backend commerce.Backend, err error) {
	if err != nil {
		log.Printf("⚠️ Commerce: %v", err)
		return
	}
	if err := registry.Register(backend); err != nil {
		log.Printf("⚠️ Commerce: %v", err)
	}
}

func loadConfig(requireServer bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if requireServer {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
