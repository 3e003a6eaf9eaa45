package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"solar-estimator/internal/climate"
	"solar-estimator/internal/config"
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

// setupEnv points the climate services at a fake upstream and the cache at
// a temp dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "Nowhere" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"-3.7319","lon":"-38.5267","display_name":"Fortaleza, Ceará, Brasil"}]`))
	})
	mux.HandleFunc("/api/temporal/climatology/point", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"properties": map[string]any{
				"parameter": map[string]any{
					"ALLSKY_SFC_SW_DWN": monthly(5),
					"T2M":               monthly(25),
				},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cacheDir := t.TempDir()
	t.Setenv(config.EnvNominatimURL, srv.URL)
	t.Setenv(config.EnvNASAPowerURL, srv.URL)
	t.Setenv(config.EnvCacheDir, cacheDir)
	t.Setenv(config.EnvCacheTTL, "")
	t.Setenv(config.EnvHTTPTimeout, "")
	t.Setenv(config.EnvParamsFile, "")
	return cacheDir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, exitInput, code)
	assert.Contains(t, stderr, "usage:")

	code, _, _ = runCLI(t, "backtest")
	assert.Equal(t, exitInput, code)
}

func TestSimulate_ClimateFileWithOutputs(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	climatePath := filepath.Join(dir, "fortaleza.json")
	require.NoError(t, climate.SaveClimateJSON(climatePath, &model.Climate{
		Place:       "Fortaleza, CE",
		Irradiance:  model.FlatSeries(5),
		Temperature: model.FlatSeries(25),
	}))

	csvPath := filepath.Join(dir, "out", "ledger.csv")
	pdfPath := filepath.Join(dir, "out", "dashboard.pdf")
	xlsxPath := filepath.Join(dir, "out", "workbook.xlsx")

	code, stdout, stderr := runCLI(t, "simulate",
		"--climate", climatePath,
		"--consumption", "300",
		"--min-connection", "30",
		"--technical",
		"--csv", csvPath,
		"--pdf", pdfPath,
		"--xlsx", xlsxPath,
	)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "=== Solar estimate: Fortaleza, CE ===")
	assert.Contains(t, stdout, "6 x 555 Wp")
	assert.Contains(t, stdout, "R$ 12,852.00")
	assert.Contains(t, stdout, "Payback:            month 47")
	assert.Contains(t, stdout, "=== Technical report ===")
	assert.NotContains(t, stdout, "Monthly installment")

	raw, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(raw)), "\n"), model.SimulationMonths+1)

	for _, p := range []string{pdfPath, xlsxPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestSimulate_FinancedWithOverrides(t *testing.T) {
	setupEnv(t)
	climatePath := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, climate.SaveClimateJSON(climatePath, &model.Climate{
		Irradiance:  model.FlatSeries(5),
		Temperature: model.FlatSeries(25),
	}))

	code, stdout, stderr := runCLI(t, "simulate",
		"--climate", climatePath,
		"--consumption", "300",
		"--finance", "--rate", "12", "--months", "24",
		"--inflation", "0",
	)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Monthly installment")
	assert.Contains(t, stdout, "c.json")
}

func TestSimulate_InputErrors(t *testing.T) {
	setupEnv(t)
	climatePath := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, climate.SaveClimateJSON(climatePath, &model.Climate{
		Irradiance:  model.FlatSeries(0),
		Temperature: model.FlatSeries(25),
	}))

	tests := []struct {
		name string
		args []string
	}{
		{"no place", []string{"simulate", "--consumption", "300"}},
		{"bad min connection", []string{"simulate", "--place", "X", "--consumption", "300", "--min-connection", "40"}},
		{"missing consumption", []string{"simulate", "--place", "X"}},
		{"missing consumption with climate file", []string{"simulate", "--climate", "/nonexistent.json"}},
		{"negative consumption flag", []string{"simulate", "--place", "X", "--consumption", "-5"}},
		{"bad degradation", []string{"simulate", "--place", "X", "--consumption", "300", "--degradation", "150"}},
		{"unknown flag", []string{"simulate", "--colour", "blue"}},
		{"missing climate file", []string{"simulate", "--climate", "/nonexistent.json", "--consumption", "300"}},
		{"zero irradiance", []string{"simulate", "--climate", climatePath, "--consumption", "300"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			assert.Equal(t, exitInput, code)
		})
	}
}

func TestRank_RequiresConsumption(t *testing.T) {
	setupEnv(t)
	code, _, stderr := runCLI(t, "rank", "--place", "X")
	assert.Equal(t, exitInput, code)
	assert.Contains(t, stderr, "--consumption is required")
}

func TestSimulate_PlaceLookupAndCache(t *testing.T) {
	cacheDir := setupEnv(t)

	code, stdout, stderr := runCLI(t, "simulate", "--place", "Fortaleza, CE", "--consumption", "300")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Fetching climate for Fortaleza, CE")
	assert.FileExists(t, filepath.Join(cacheDir, "geo_Fortaleza__CE.json"))

	code, stdout, _ = runCLI(t, "clear-cache")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Removed 1 cached climate files")
	assert.NoFileExists(t, filepath.Join(cacheDir, "geo_Fortaleza__CE.json"))
}

func TestSimulate_PlaceNotFound(t *testing.T) {
	setupEnv(t)
	code, _, stderr := runCLI(t, "simulate", "--place", "Nowhere", "--consumption", "300")
	assert.Equal(t, exitProvider, code)
	assert.Contains(t, stderr, "place not found: Nowhere")
}

func TestRank(t *testing.T) {
	setupEnv(t)

	code, stdout, stderr := runCLI(t, "rank", "--place", "Fortaleza, CE", "--place", "Nowhere", "--consumption", "300")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Fortaleza, CE")
	assert.Contains(t, stderr, "skipping Nowhere")

	code, _, _ = runCLI(t, "rank", "--place", "Nowhere", "--consumption", "300")
	assert.Equal(t, exitProvider, code)

	code, _, _ = runCLI(t, "rank", "--consumption", "300")
	assert.Equal(t, exitInput, code)
}
