package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajitpratap0/leadsegment/internal/geo"
)

// validCfg returns a fully-valid Config for mutation testing.
func validCfg() *Config {
	return &Config{
		Geo: geo.DefaultConfig(),
		Segment: SegmentConfig{
			OwnershipTag:            "APREU",
			ExcludedLifecycleStages: []string{"other", "subscriber"},
			HighEngagementQuantile:  0.7,
			KMeansSeed:              42,
			KMeansInits:             10,
		},
		Cache: CacheConfig{
			Backend:    CacheMemory,
			TTLMinutes: 60,
		},
		API: APIConfig{
			ListenAddr:  ":8080",
			MaxUploadMB: 64,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func expectErr(t *testing.T, cfg *Config, field string) {
	t.Helper()
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error mentioning %s", field)
	}
	if !strings.Contains(err.Error(), field) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ValidConfigPasses(t *testing.T) {
	if err := validCfg().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EmptyHomeCountry(t *testing.T) {
	cfg := validCfg()
	cfg.Geo.HomeCountry = " "
	expectErr(t, cfg, "home_country")
}

func TestValidate_QuantileOutOfRange(t *testing.T) {
	for _, q := range []float64{0, 1, 1.5, -0.2} {
		cfg := validCfg()
		cfg.Segment.HighEngagementQuantile = q
		expectErr(t, cfg, "high_engagement_quantile")
	}
}

func TestValidate_KMeansInitsZero(t *testing.T) {
	cfg := validCfg()
	cfg.Segment.KMeansInits = 0
	expectErr(t, cfg, "kmeans_inits")
}

func TestValidate_UnknownCacheBackend(t *testing.T) {
	cfg := validCfg()
	cfg.Cache.Backend = "memcached"
	expectErr(t, cfg, "cache.backend")
}

func TestValidate_RedisNeedsAddr(t *testing.T) {
	cfg := validCfg()
	cfg.Cache.Backend = CacheRedis
	expectErr(t, cfg, "redis_addr")

	cfg.Cache.RedisAddr = "localhost:6379"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NegativeTTL(t *testing.T) {
	cfg := validCfg()
	cfg.Cache.TTLMinutes = -1
	expectErr(t, cfg, "ttl_minutes")
}

func TestValidate_UploadLimit(t *testing.T) {
	cfg := validCfg()
	cfg.API.MaxUploadMB = 0
	expectErr(t, cfg, "max_upload_mb")
}

func TestValidate_LoggingLevel(t *testing.T) {
	cfg := validCfg()
	cfg.Logging.Level = "verbose"
	expectErr(t, cfg, "logging.level")
}

func TestSegmentOptions(t *testing.T) {
	opts := validCfg().Segment.Options()
	if opts.OwnershipTag != "APREU" || opts.KMeans.Seed != 42 || opts.KMeans.Inits != 10 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if err := opts.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCacheConfigStringMasksPassword(t *testing.T) {
	c := CacheConfig{Backend: CacheRedis, RedisPassword: "supersecretpassword"}
	s := c.String()
	if strings.Contains(s, "supersecretpassword") {
		t.Fatalf("password leaked: %s", s)
	}
	if !strings.Contains(s, "supe****word") {
		t.Fatalf("unexpected mask: %s", s)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `geo:
  home_country: United States
  home_country_aliases: [usa, us]
  local_region: California
  local_aliases: [california, ca]
segment:
  high_engagement_quantile: 0.8
cache:
  backend: none
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LEADSEGMENT_API_AUTH_TOKEN", "tok")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geo.HomeCountry != "United States" || cfg.Geo.LocalRegion != "California" {
		t.Fatalf("geo not loaded: %+v", cfg.Geo)
	}
	if len(cfg.Geo.LocalAliases) != 2 {
		t.Fatalf("aliases not loaded: %v", cfg.Geo.LocalAliases)
	}
	if cfg.Segment.HighEngagementQuantile != 0.8 {
		t.Fatalf("quantile = %v", cfg.Segment.HighEngagementQuantile)
	}
	if cfg.Segment.OwnershipTag != "APREU" || cfg.Segment.KMeansInits != 10 {
		t.Fatalf("defaults not applied: %+v", cfg.Segment)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Fatalf("backend = %q", cfg.Cache.Backend)
	}
	if cfg.API.AuthToken != "tok" {
		t.Fatalf("env override not applied: %q", cfg.API.AuthToken)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for an explicit missing config file")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  backend: floppy\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error")
	}
}
