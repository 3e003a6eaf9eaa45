package climate

import "time"

// PipelineConfig describes the provider stack built by NewPipeline.
type PipelineConfig struct {
	NominatimURL       string
	NominatimUserAgent string
	NASAPowerURL       string
	HTTPTimeout        time.Duration

	Retry     RetryConfig
	RateLimit RateLimitConfig

	CacheDir     string // empty disables the disk cache
	CacheTTL     time.Duration
	RefreshCache bool

	Memory  *MemoryCache // nil disables the in-process cache
	Metrics MetricsRecorder
}

// DefaultRetry matches the upstream services' tolerance: three attempts a
// second apart.
var DefaultRetry = RetryConfig{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 4 * time.Second}

// DefaultRateLimit keeps within the public Nominatim policy.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 1, Burst: 1}

// NewPipeline builds, from the inside out: live service, rate limit,
// per-attempt timeout, retry, disk cache, singleflight, memory cache,
// metrics.
func NewPipeline(cfg PipelineConfig) Provider {
	svc := NewService(
		NewNominatimClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.HTTPTimeout),
		NewPowerClient(cfg.NASAPowerURL, cfg.HTTPTimeout),
	)
	return Wrap(svc, cfg)
}

// Wrap applies the PipelineConfig middleware stack to base.
func Wrap(base Provider, cfg PipelineConfig) Provider {
	p := base
	if cfg.RateLimit.RequestsPerSecond > 0 {
		p = WithRateLimit(cfg.RateLimit)(p)
	}
	if cfg.HTTPTimeout > 0 {
		p = WithTimeout(2 * cfg.HTTPTimeout)(p)
	}
	if cfg.Retry.MaxAttempts > 1 {
		p = WithRetry(cfg.Retry)(p)
	}
	if cfg.CacheDir != "" {
		fc := NewFileCache(p, cfg.CacheDir, cfg.CacheTTL)
		fc.Refresh = cfg.RefreshCache
		fc.Metrics = cfg.Metrics
		p = fc
	}
	p = WithSingleflight(sharedCallTimeout(cfg))(p)
	if cfg.Memory != nil {
		p = WithMemoryCache(cfg.Memory, cfg.Metrics)(p)
	}
	if cfg.Metrics != nil {
		p = WithMetrics(cfg.Metrics)(p)
	}
	return p
}
