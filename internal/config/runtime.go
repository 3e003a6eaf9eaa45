package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvCacheDir     = "SOLAR_CACHE_DIR"
	EnvCacheTTL     = "SOLAR_CACHE_TTL"
	EnvHTTPTimeout  = "SOLAR_HTTP_TIMEOUT"
	EnvParamsFile   = "SOLAR_PARAMS_FILE"
	EnvPlacesFile   = "SOLAR_PLACES_FILE"
	EnvNominatimURL = "NOMINATIM_URL"
	EnvNominatimUA  = "NOMINATIM_USER_AGENT"
	EnvNASAPowerURL = "NASA_POWER_URL"
	EnvAPIPort      = "API_PORT"
	EnvAPIEnv       = "API_ENV"
)

const (
	DefaultCacheDir     = ".cache"
	DefaultCacheTTL     = 0 // disk cache entries never expire unless set
	DefaultHTTPTimeout  = 15 * time.Second
	DefaultPlacesFile   = "data/places.json"
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultNominatimUA  = "solar-estimator/1.0"
	DefaultNASAPowerURL = "https://power.larc.nasa.gov"
	DefaultAPIPort      = "8080"
	DefaultAPIEnv       = "development"
)

// Runtime holds process settings resolved from defaults, .env and the
// environment, in that order.
type Runtime struct {
	CacheDir    string
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
	ParamsFile  string
	PlacesFile  string

	NominatimURL       string
	NominatimUserAgent string
	NASAPowerURL       string

	APIPort string
	APIEnv  string
}

// LoadDotEnv loads .env from the working directory if present. Missing
// files are not an error; anything else is logged.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}
}

// ResolveRuntime reads the environment on top of the defaults.
func ResolveRuntime() (Runtime, error) {
	rt := Runtime{
		CacheDir:           DefaultCacheDir,
		CacheTTL:           DefaultCacheTTL,
		HTTPTimeout:        DefaultHTTPTimeout,
		PlacesFile:         DefaultPlacesFile,
		NominatimURL:       DefaultNominatimURL,
		NominatimUserAgent: DefaultNominatimUA,
		NASAPowerURL:       DefaultNASAPowerURL,
		APIPort:            DefaultAPIPort,
		APIEnv:             DefaultAPIEnv,
	}

	if v := env(EnvCacheDir); v != "" {
		dir, err := expandHomeDir(v)
		if err != nil {
			return Runtime{}, err
		}
		rt.CacheDir = dir
	}
	if v := env(EnvCacheTTL); v != "" {
		d, err := parseDuration(EnvCacheTTL, v)
		if err != nil {
			return Runtime{}, err
		}
		rt.CacheTTL = d
	}
	if v := env(EnvHTTPTimeout); v != "" {
		d, err := parseDuration(EnvHTTPTimeout, v)
		if err != nil {
			return Runtime{}, err
		}
		if d <= 0 {
			return Runtime{}, fmt.Errorf("%s must be > 0, got %q", EnvHTTPTimeout, v)
		}
		rt.HTTPTimeout = d
	}
	if v := env(EnvParamsFile); v != "" {
		rt.ParamsFile = v
	}
	if v := env(EnvPlacesFile); v != "" {
		rt.PlacesFile = v
	}
	if v := env(EnvNominatimURL); v != "" {
		rt.NominatimURL = strings.TrimRight(v, "/")
	}
	if v := env(EnvNominatimUA); v != "" {
		rt.NominatimUserAgent = v
	}
	if v := env(EnvNASAPowerURL); v != "" {
		rt.NASAPowerURL = strings.TrimRight(v, "/")
	}
	if v := env(EnvAPIPort); v != "" {
		rt.APIPort = v
	}
	if v := env(EnvAPIEnv); v != "" {
		rt.APIEnv = v
	}
	return rt, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be >= 0, got %q", key, v)
	}
	return d, nil
}

func expandHomeDir(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
