package config

import (
	"testing"
	"time"
)

func setRESTBackend(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BACKEND_MODE", BackendModeREST)
	t.Setenv("BACKEND_URL", "https://roster.example.supabase.co/")
	t.Setenv("BACKEND_API_KEY", "anon-key")
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRESTBackend(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRESTBackend(t)
	t.Setenv("CACHE_DRIVER", "")
	t.Setenv("CACHE_DSN", "")
	t.Setenv("SYNC_WORKERS", "")
	t.Setenv("SYNC_INTERVAL", "")
	t.Setenv("BACKEND_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BackendURL != "https://roster.example.supabase.co" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 0 {
		t.Fatalf("expected no backend timeout by default, got %s", cfg.BackendTimeout)
	}
	if cfg.CacheDriver != CacheDriverSQLite || cfg.CacheDSN != "roster-cache.db" {
		t.Fatalf("unexpected cache defaults: driver=%q dsn=%q", cfg.CacheDriver, cfg.CacheDSN)
	}
	if cfg.SyncWorkers != 3 || cfg.SyncInterval != 5*time.Minute {
		t.Fatalf("unexpected sync defaults: workers=%d interval=%s", cfg.SyncWorkers, cfg.SyncInterval)
	}
	if !cfg.BackendCircuitEnabled || cfg.BackendCircuitFailureCount != 5 {
		t.Fatalf("unexpected circuit defaults: enabled=%v failures=%d", cfg.BackendCircuitEnabled, cfg.BackendCircuitFailureCount)
	}
	if cfg.ServiceName != "hockey-roster" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
}

func TestLoad_RESTModeRequiresCredentials(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		setRESTBackend(t)
		t.Setenv("BACKEND_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without BACKEND_URL")
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		setRESTBackend(t)
		t.Setenv("BACKEND_API_KEY", " ")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without BACKEND_API_KEY")
		}
	})

	t.Run("memory mode needs neither", func(t *testing.T) {
		setRESTBackend(t)
		t.Setenv("BACKEND_MODE", "MEMORY")
		t.Setenv("BACKEND_URL", "")
		t.Setenv("BACKEND_API_KEY", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.BackendMode != BackendModeMemory {
			t.Fatalf("unexpected backend mode: %q", cfg.BackendMode)
		}
	})
}

func TestLoad_InvalidChoices(t *testing.T) {
	cases := map[string]string{
		"BACKEND_MODE":                  "graphql",
		"CACHE_DRIVER":                  "redis",
		"BACKEND_TIMEOUT":               "-1s",
		"BACKEND_CIRCUIT_FAILURE_COUNT": "0",
		"SYNC_WORKERS":                  "zero",
		"SYNC_INTERVAL":                 "0s",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRESTBackend(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoad_PostgresCacheRequiresDSN(t *testing.T) {
	setRESTBackend(t)
	t.Setenv("CACHE_DRIVER", CacheDriverPostgres)
	t.Setenv("CACHE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when CACHE_DRIVER=postgres without CACHE_DSN")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRESTBackend(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setRESTBackend(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setRESTBackend(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRESTBackend(t)
	t.Setenv("APP_SERVICE_NAME", "roster-sync")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "roster-sync" {
		t.Fatalf("unexpected PyroscopeAppName: %q", cfg.PyroscopeAppName)
	}
}

func TestParseLogLevel(t *testing.T) {
	if got := parseLogLevel("WARNING"); got.String() != "warn" {
		t.Fatalf("unexpected level: %s", got)
	}
	if got := parseLogLevel("nonsense"); got.String() != "info" {
		t.Fatalf("unexpected fallback level: %s", got)
	}
}
