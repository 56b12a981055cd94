package config

import "testing"

func TestLoadRequiresPageServerHosts(t *testing.T) {
	t.Setenv("PAGE_SERVER_HOSTS", "")

	if _, loadErr := Load(); loadErr == nil {
		t.Errorf("expected Load to fail without PAGE_SERVER_HOSTS set")
	}
}

func TestLoadParsesHostsAndDefaults(t *testing.T) {
	t.Setenv("PAGE_SERVER_HOSTS", "ps1:3000,ps2:3000")

	cfg, loadErr := Load()
	if loadErr != nil { t.Fatalf("unexpected error: %v", loadErr) }

	if len(cfg.PageServerHosts) != 2 {
		t.Errorf("expected 2 page server hosts, got %d", len(cfg.PageServerHosts))
	}

	if cfg.MetricsAddr != ":9477" {
		t.Errorf("expected default metrics addr :9477, got %q", cfg.MetricsAddr)
	}

	if cfg.ConnType != ConnTypeActive {
		t.Errorf("expected default conn type active, got %q", cfg.ConnType)
	}
}
