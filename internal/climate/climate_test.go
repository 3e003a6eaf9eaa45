package climate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"solar-estimator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthly(v float64) map[string]float64 {
	out := map[string]float64{"ANN": v}
	for _, k := range model.MonthKeys {
		out[k] = v
	}
	return out
}

func newUpstream(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		if r.URL.Query().Get("q") == "Nowhere" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"-3.7319","lon":"-38.5267","display_name":"Fortaleza, Ceará, Brasil"}]`))
	})
	mux.HandleFunc("/api/temporal/climatology/point", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		q := r.URL.Query()
		assert.Equal(t, "ALLSKY_SFC_SW_DWN,T2M", q.Get("parameters"))
		assert.Equal(t, "RE", q.Get("community"))
		assert.Equal(t, "-3.7319", q.Get("latitude"))
		body := map[string]any{
			"properties": map[string]any{
				"parameter": map[string]any{
					"ALLSKY_SFC_SW_DWN": monthly(5.6),
					"T2M":               monthly(27.1),
				},
			},
		}
		_ = json.NewEncoder(w).Encode(body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(srv *httptest.Server) *Service {
	return NewService(
		NewNominatimClient(srv.URL, "test-agent", time.Second),
		NewPowerClient(srv.URL, time.Second),
	)
}

func TestService_FetchClimate(t *testing.T) {
	var hits int32
	srv := newUpstream(t, &hits)

	c, err := newTestService(srv).FetchClimate(context.Background(), "Fortaleza, CE")
	require.NoError(t, err)

	assert.Equal(t, "Fortaleza, CE", c.Place)
	assert.Equal(t, "Fortaleza, Ceará, Brasil", c.Address)
	assert.InDelta(t, -3.7319, c.Latitude, 1e-9)
	assert.InDelta(t, -38.5267, c.Longitude, 1e-9)
	assert.Equal(t, model.FlatSeries(5.6), c.Irradiance)
	assert.Equal(t, model.FlatSeries(27.1), c.Temperature)
	assert.False(t, c.FetchedAt.IsZero())
	assert.Equal(t, int32(2), hits)
}

func TestService_UnknownPlace(t *testing.T) {
	var hits int32
	srv := newUpstream(t, &hits)

	_, err := newTestService(srv).FetchClimate(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNominatim_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewNominatimClient(srv.URL, "", time.Second).Geocode(context.Background(), "Recife")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "nominatim", apiErr.Service)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", apiErr.Code)
	assert.Equal(t, "30", apiErr.RetryAfter)
	assert.True(t, apiErr.Retryable())
}

func TestPower_FillValueRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		irr := monthly(5)
		irr["JUL"] = -999
		body := map[string]any{"properties": map[string]any{"parameter": map[string]any{
			"ALLSKY_SFC_SW_DWN": irr,
			"T2M":               monthly(25),
		}}}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	_, _, err := NewPowerClient(srv.URL, time.Second).Climatology(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JUL")
}

func TestPower_MissingParameter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"properties":{"parameter":{"T2M":{}}}}`))
	}))
	defer srv.Close()

	_, _, err := NewPowerClient(srv.URL, time.Second).Climatology(context.Background(), 0, 0)
	assert.Error(t, err)
}

func fixedClimate(place string) *model.Climate {
	return &model.Climate{
		Place:       place,
		Irradiance:  model.FlatSeries(5),
		Temperature: model.FlatSeries(25),
		FetchedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func countingProvider(calls *int32, errs ...error) Provider {
	return ProviderFunc(func(ctx context.Context, place string) (*model.Climate, error) {
		n := atomic.AddInt32(calls, 1)
		if int(n) <= len(errs) && errs[n-1] != nil {
			return nil, errs[n-1]
		}
		return fixedClimate(place), nil
	})
}

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	var calls int32
	p := WithRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})(
		countingProvider(&calls, &APIError{Service: "nasa_power", StatusCode: 503}, context.DeadlineExceeded),
	)

	c, err := p.FetchClimate(context.Background(), "Natal")
	require.NoError(t, err)
	assert.Equal(t, "Natal", c.Place)
	assert.Equal(t, int32(3), calls)
}

func TestWithRetry_StopsOnNotFound(t *testing.T) {
	var calls int32
	p := WithRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})(
		countingProvider(&calls, ErrNotFound, nil),
	)

	_, err := p.FetchClimate(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls)
}

func TestWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	boom := &APIError{Service: "nominatim", StatusCode: 500}
	p := WithRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})(
		countingProvider(&calls, boom, boom, boom, boom),
	)

	_, err := p.FetchClimate(context.Background(), "Natal")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(3), calls)
}

func TestWithRateLimit_CancelledContext(t *testing.T) {
	var calls int32
	p := WithRateLimit(RateLimitConfig{RequestsPerSecond: 0.01, Burst: 1})(countingProvider(&calls))

	_, err := p.FetchClimate(context.Background(), "A")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.FetchClimate(ctx, "B")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), calls)
}

func TestWithRateLimit_SpacesCalls(t *testing.T) {
	var calls int32
	p := WithRateLimit(RateLimitConfig{RequestsPerSecond: 2, Burst: 1})(countingProvider(&calls))

	start := time.Now()
	for _, place := range []string{"A", "B", "C"} {
		_, err := p.FetchClimate(context.Background(), place)
		require.NoError(t, err)
	}

	// First call uses the burst; the next two wait 500ms each.
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
	assert.Equal(t, int32(3), calls)
}

func TestWithRateLimit_BurstPassesImmediately(t *testing.T) {
	var calls int32
	p := WithRateLimit(RateLimitConfig{RequestsPerSecond: 0.5, Burst: 3})(countingProvider(&calls))

	start := time.Now()
	for _, place := range []string{"A", "B", "C"} {
		_, err := p.FetchClimate(context.Background(), place)
		require.NoError(t, err)
	}

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, int32(3), calls)
}

func TestWithRetry_SingleAttemptDoesNotRetry(t *testing.T) {
	var calls int32
	boom := &APIError{Service: "nasa_power", StatusCode: 503}
	p := WithRetry(RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond})(countingProvider(&calls, boom, boom))

	_, err := p.FetchClimate(context.Background(), "Natal")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), calls)
}

func TestWithRetry_CancelledContextSkipsCall(t *testing.T) {
	var calls int32
	p := WithRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})(countingProvider(&calls))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.FetchClimate(ctx, "Natal")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

type recorder struct {
	fetches int
	errs    int
	hits    map[string]int
	misses  map[string]int
}

func newRecorder() *recorder {
	return &recorder{hits: map[string]int{}, misses: map[string]int{}}
}

func (r *recorder) ObserveFetch(_ time.Duration, err error) {
	r.fetches++
	if err != nil {
		r.errs++
	}
}

func (r *recorder) ObserveCacheLookup(layer string, hit bool) {
	if hit {
		r.hits[layer]++
	} else {
		r.misses[layer]++
	}
}

func TestFileCache_HitMissAndLayout(t *testing.T) {
	var calls int32
	dir := t.TempDir()
	rec := newRecorder()
	fc := NewFileCache(countingProvider(&calls), dir, 0)
	fc.Metrics = rec

	first, err := fc.FetchClimate(context.Background(), "Fortaleza, CE")
	require.NoError(t, err)
	second, err := fc.FetchClimate(context.Background(), "Fortaleza, CE")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls)
	assert.Equal(t, first.Irradiance, second.Irradiance)
	assert.True(t, first.FetchedAt.Equal(second.FetchedAt))
	assert.Equal(t, 1, rec.hits["file"])
	assert.Equal(t, 1, rec.misses["file"])

	_, err = os.Stat(filepath.Join(dir, "geo_Fortaleza__CE.json"))
	assert.NoError(t, err)
}

func TestFileCache_ReadsLegacyFile(t *testing.T) {
	var calls int32
	dir := t.TempDir()
	legacy := map[string]any{"irr": monthly(6.1), "temp": monthly(24)}
	raw, _ := json.Marshal(legacy)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geo_Recife.json"), raw, 0o644))

	c, err := NewFileCache(countingProvider(&calls), dir, 0).FetchClimate(context.Background(), "Recife")
	require.NoError(t, err)
	assert.Equal(t, int32(0), calls)
	assert.Equal(t, "Recife", c.Place)
	assert.Equal(t, model.FlatSeries(6.1), c.Irradiance)
}

func TestFileCache_TTLExpiry(t *testing.T) {
	var calls int32
	fc := NewFileCache(countingProvider(&calls), t.TempDir(), time.Hour)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fc.now = func() time.Time { return now }

	_, err := fc.FetchClimate(context.Background(), "Natal")
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	_, err = fc.FetchClimate(context.Background(), "Natal")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls)

	now = now.Add(time.Hour)
	_, err = fc.FetchClimate(context.Background(), "Natal")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls)
}

func TestFileCache_RefreshAndCorruptFile(t *testing.T) {
	var calls int32
	dir := t.TempDir()
	fc := NewFileCache(countingProvider(&calls), dir, 0)

	require.NoError(t, os.WriteFile(fc.Path("Natal"), []byte("{not json"), 0o644))
	_, err := fc.FetchClimate(context.Background(), "Natal")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls)

	fc.Refresh = true
	_, err = fc.FetchClimate(context.Background(), "Natal")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls)
}

func TestFileCache_ErrorsAreNotCached(t *testing.T) {
	var calls int32
	fc := NewFileCache(countingProvider(&calls, ErrNotFound), t.TempDir(), 0)

	_, err := fc.FetchClimate(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = os.Stat(fc.Path("Nowhere"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileCache_Clear(t *testing.T) {
	var calls int32
	dir := t.TempDir()
	fc := NewFileCache(countingProvider(&calls), dir, 0)
	for _, p := range []string{"A", "B", "C"} {
		_, err := fc.FetchClimate(context.Background(), p)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))

	n, err := fc.Clear()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = os.Stat(filepath.Join(dir, "keep.txt"))
	assert.NoError(t, err)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "Fortaleza__CE", SafeName("Fortaleza, CE"))
	assert.Equal(t, "São_Paulo", SafeName("São Paulo"))
	assert.Equal(t, "___etc_passwd", SafeName("../etc/passwd"))
	assert.Equal(t, "unknown", SafeName("  "))
}

func TestMemoryCache_NormalizedKeysAndCopies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache := NewMemoryCache(ctx, time.Minute, 0)

	cache.Set("Fortaleza, CE", fixedClimate("Fortaleza, CE"))
	got, ok := cache.Get("  fortaleza,   ce ")
	require.True(t, ok)
	assert.Equal(t, "Fortaleza, CE", got.Place)

	got.Place = "mutated"
	again, _ := cache.Get("Fortaleza, CE")
	assert.Equal(t, "Fortaleza, CE", again.Place)

	cache.removeExpired(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, cache.Len())
}

func TestWithMemoryCache(t *testing.T) {
	var calls int32
	rec := newRecorder()
	cache := NewMemoryCache(context.Background(), time.Minute, 0)
	p := Chain(countingProvider(&calls), WithMetrics(rec), WithMemoryCache(cache, rec))

	for i := 0; i < 3; i++ {
		_, err := p.FetchClimate(context.Background(), "Natal")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, 3, rec.fetches)
	assert.Equal(t, 2, rec.hits["memory"])
	assert.Equal(t, 1, rec.misses["memory"])
}

func TestWrap_FullStack(t *testing.T) {
	var hits int32
	srv := newUpstream(t, &hits)
	rec := newRecorder()

	p := Wrap(newTestService(srv), PipelineConfig{
		HTTPTimeout: time.Second,
		Retry:       RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond},
		RateLimit:   RateLimitConfig{RequestsPerSecond: 100, Burst: 10},
		CacheDir:    t.TempDir(),
		Metrics:     rec,
	})

	for i := 0; i < 2; i++ {
		c, err := p.FetchClimate(context.Background(), "Fortaleza, CE")
		require.NoError(t, err)
		assert.Equal(t, 5.6, c.Irradiance[0])
	}
	assert.Equal(t, int32(2), hits)
	assert.Equal(t, 2, rec.fetches)
	assert.Equal(t, 1, rec.hits["file"])
}

func TestLoadClimateJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "climate.json")
	want := fixedClimate("Natal")
	want.Address = "Natal, RN"
	require.NoError(t, SaveClimateJSON(path, want))

	got, err := LoadClimateJSON(path)
	require.NoError(t, err)
	assert.Equal(t, want.Place, got.Place)
	assert.Equal(t, want.Address, got.Address)
	assert.Equal(t, want.Irradiance, got.Irradiance)
	assert.True(t, want.FetchedAt.Equal(got.FetchedAt))

	require.NoError(t, os.WriteFile(path, []byte(`{"irr":{"JAN":1},"temp":{}}`), 0o644))
	_, err = LoadClimateJSON(path)
	assert.Error(t, err)
}

func TestPlaces_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "places.json")
	list := &PlaceList{
		UpdatedAt: "2026-01-02T03:04:05Z",
		Places:    []Place{{Name: "Fortaleza, CE"}, {Name: "Porto Alegre, RS", Latitude: -30.03}},
	}
	require.NoError(t, SavePlaces(list, path))

	got, err := LoadPlaces(path)
	require.NoError(t, err)
	assert.Equal(t, list, got)
	assert.Equal(t, []string{"Fortaleza, CE", "Porto Alegre, RS"}, got.Names())
}

func TestStatic(t *testing.T) {
	c, err := Static{Climate: *fixedClimate("")}.FetchClimate(context.Background(), "Anywhere")
	require.NoError(t, err)
	assert.Equal(t, "Anywhere", c.Place)
}
