package main

import (
	"testing"
	"time"

	"soil_health/internal/config"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "tui"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered: %v", name, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatal("--config flag missing")
	}
}

func TestNewServices_UsesConfig(t *testing.T) {
	cfg := &config.Config{
		Predict: config.PredictConfig{BaseURL: "http://localhost:8000", Timeout: time.Second},
		Form:    config.FormConfig{StrictNumeric: true},
		Slogans: config.SloganConfig{Period: time.Second, List: []string{"only"}},
	}
	svc, err := newServices(cfg, nil, nil)
	if err != nil {
		t.Fatalf("newServices: %v", err)
	}
	if !svc.Gate.StrictNumeric {
		t.Fatal("strict numeric not applied")
	}
	if got := svc.Slogans.Current().Text; got != "only" {
		t.Fatalf("slogan = %q", got)
	}
}
