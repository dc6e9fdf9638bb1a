package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.SigMode != "off" {
		t.Fatalf("SigMode = %q", cfg.SigMode)
	}
	if cfg.StorageBackend != "memory" {
		t.Fatalf("StorageBackend = %q", cfg.StorageBackend)
	}
	if cfg.RateLimitPerMin != 60 || cfg.MaxPayloadMB != 5 {
		t.Fatalf("limits = %d %d", cfg.RateLimitPerMin, cfg.MaxPayloadMB)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("OMP_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("OMP_SIG_MODE", "strict")
	t.Setenv("OMP_RATE_LIMIT", "10")
	t.Setenv("OMP_MAX_PAYLOAD_MB", "not-a-number")

	cfg := FromEnv()
	if cfg.HTTPAddr != "127.0.0.1:9000" || cfg.SigMode != "strict" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.RateLimitPerMin != 10 {
		t.Fatalf("RateLimitPerMin = %d", cfg.RateLimitPerMin)
	}
	if cfg.MaxPayloadMB != 5 {
		t.Fatalf("unparseable int must fall back to the default, got %d", cfg.MaxPayloadMB)
	}
}

func TestSigKeyEntries(t *testing.T) {
	cfg := Config{SigKeysJSON: `{"sig1":"abc","sig2":"def"}`}
	entries, err := cfg.SigKeyEntries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if entries["sig1"] != "abc" || entries["sig2"] != "def" {
		t.Fatalf("entries = %v", entries)
	}

	cfg = Config{}
	if entries, err := cfg.SigKeyEntries(); err != nil || entries != nil {
		t.Fatalf("empty config entries = %v err = %v", entries, err)
	}

	cfg = Config{SigKeysJSON: "{"}
	if _, err := cfg.SigKeyEntries(); err == nil {
		t.Fatal("expected error for broken JSON")
	}
}

func TestListenerHostPort(t *testing.T) {
	cfg := Config{HTTPAddr: "10.0.0.1:9090"}
	host, port := cfg.ListenerHostPort()
	if host != "10.0.0.1" || port != 9090 {
		t.Fatalf("host = %q port = %d", host, port)
	}

	cfg = Config{HTTPAddr: ":8080"}
	host, port = cfg.ListenerHostPort()
	if host != "" || port != 8080 {
		t.Fatalf("host = %q port = %d", host, port)
	}
	if cfg.ServerPort() != 8080 {
		t.Fatalf("ServerPort = %d", cfg.ServerPort())
	}

	cfg = Config{HTTPAddr: "nonsense"}
	if _, port := cfg.ListenerHostPort(); port != 0 {
		t.Fatalf("port = %d", port)
	}
}
