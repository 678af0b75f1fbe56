package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xelth-com/shopreply/internal/config"
)

func TestEstimateCommand(t *testing.T) {
	cmd := estimateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"2024-01-01"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "between January 20 and January 26" {
		t.Errorf("got %q", got)
	}
}

func TestEstimateCommandRejectsBadDate(t *testing.T) {
	cmd := estimateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"01/01/2024"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestReadBody(t *testing.T) {
	got, err := readBody(strings.NewReader("  Where is my order?\n"), "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Where is my order?" {
		t.Errorf("stdin body = %q", got)
	}

	path := filepath.Join(t.TempDir(), "email.txt")
	if err := os.WriteFile(path, []byte("Is it pre-order?"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = readBody(strings.NewReader("ignored"), path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Is it pre-order?" {
		t.Errorf("file body = %q", got)
	}
}

func TestBuildRegistry(t *testing.T) {
	registry := buildRegistry(config.CommerceConfig{
		Backend: "odoo",
		Shopify: config.ShopifyConfig{ShopURL: "https://demo.myshopify.com", AccessToken: "tok", APIVersion: "2024-01"},
		Odoo:    config.OdooConfig{URL: "https://odoo.example.com", Database: "prod", Username: "bot"},
	})

	codes := registry.Codes()
	if len(codes) != 2 || codes[0] != "odoo" || codes[1] != "shopify" {
		t.Errorf("codes = %v", codes)
	}

	// incomplete credentials are skipped, not fatal
	registry = buildRegistry(config.CommerceConfig{
		Odoo: config.OdooConfig{URL: "https://odoo.example.com"},
	})
	if registry.Has("odoo") {
		t.Error("odoo without database should not be registered")
	}
}

func TestShopLocation(t *testing.T) {
	if loc := shopLocation(""); loc != time.UTC {
		t.Errorf("empty timezone = %v, want UTC", loc)
	}
	if loc := shopLocation("Not/AZone"); loc != time.UTC {
		t.Errorf("unknown timezone = %v, want UTC", loc)
	}
	if _, err := time.LoadLocation("Europe/Berlin"); err != nil {
		t.Skip("no tzdata")
	}
	if loc := shopLocation("Europe/Berlin"); loc.String() != "Europe/Berlin" {
		t.Errorf("Europe/Berlin = %v", loc)
	}
}
