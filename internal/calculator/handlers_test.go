package calculator

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-chi-calculators/internal/formula"
	"go-chi-calculators/internal/observability"
	"go-chi-calculators/internal/testutil"

	"github.com/go-chi/chi/v5"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(Default()))
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return testutil.ExecuteRequest(req, h)
}

func TestEvaluateAmpToKVA(t *testing.T) {
	h := newTestRouter(t)

	w := post(t, h, "/api/calculators/electrical/amp-to-kva", `{"inputs":{"amps":"10","volts":"230"}}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp struct {
		Calculator string `json:"calculator"`
		Outputs    []struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
			Unit  string  `json:"unit"`
		} `json:"outputs"`
	}
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.Calculator != "electrical/amp-to-kva" {
		t.Fatalf("expected calculator electrical/amp-to-kva, got %q", resp.Calculator)
	}
	if len(resp.Outputs) != 1 || resp.Outputs[0].Name != "kva" || resp.Outputs[0].Unit != "kVA" {
		t.Fatalf("unexpected outputs %#v", resp.Outputs)
	}
	if got := resp.Outputs[0].Value; got != 2.3 {
		t.Fatalf("expected 2.3 kVA, got %v", got)
	}
}

func TestEvaluateSentinelZeroIsSuccess(t *testing.T) {
	h := newTestRouter(t)

	w := post(t, h, "/api/calculators/electrical/amp-to-kva", `{"inputs":{"amps":"-1","volts":"230"}}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
}

func TestEvaluateRejectedInputIsBadRequest(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "gcd with zero", path: "/api/calculators/math/gcd", body: `{"inputs":{"numbers":"12, 0, 4"}}`},
		{name: "gcd empty", path: "/api/calculators/math/gcd", body: `{"inputs":{}}`},
		{name: "factorial above cap", path: "/api/calculators/math/factorial", body: `{"inputs":{"n":"171"}}`},
		{name: "not a number", path: "/api/calculators/electrical/amp-to-kva", body: `{"inputs":{"amps":"ten","volts":"230"}}`},
		{name: "unknown phase", path: "/api/calculators/electrical/kw-to-volts", body: `{"inputs":{"kw":"1","amps":"2","phase":"four"}}`},
		{name: "vigenere bad key", path: "/api/calculators/cipher/vigenere", body: `{"inputs":{"text":"hello","key":"123"}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := post(t, h, tc.path, tc.body)
			testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			testutil.DecodeJSONBody(t, w.Body, &body)
			if body["error"] == "" {
				t.Fatal("expected error message in body")
			}
		})
	}
}

func TestEvaluateOverflowIsRejected(t *testing.T) {
	h := newTestRouter(t)

	w := post(t, h, "/api/calculators/electrical/amp-to-kva", `{"inputs":{"amps":"1e200","volts":"1e200"}}`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	if body["error"] == "" {
		t.Fatal("expected error message in body")
	}
}

func TestEvaluateRejectionCountedOnce(t *testing.T) {
	h := newTestRouter(t)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	counter, err := provider.Meter("calculator").Int64Counter("calculator.errors.total")
	if err != nil {
		t.Fatalf("creating counter: %v", err)
	}
	saved := errorCounter
	errorCounter = counter
	t.Cleanup(func() { errorCounter = saved })

	w := post(t, h, "/api/calculators/math/gcd", `{"inputs":{"numbers":"0,4"}}`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 1 {
		t.Fatalf("expected 1 counted error, got %d", total)
	}
}

func TestEvaluateUnknownCalculator(t *testing.T) {
	h := newTestRouter(t)

	w := post(t, h, "/api/calculators/math/nope", `{"inputs":{}}`)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestEvaluateInvalidBody(t *testing.T) {
	h := newTestRouter(t)

	w := post(t, h, "/api/calculators/math/gcd", `{not json`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}

func TestEvaluateLongDivisionSteps(t *testing.T) {
	h := newTestRouter(t)

	w := post(t, h, "/api/calculators/math/long-division", `{"inputs":{"dividend":"1234","divisor":"7"}}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp EvaluateResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if len(resp.StepColumns) != 4 {
		t.Fatalf("expected 4 step columns, got %v", resp.StepColumns)
	}
	if len(resp.Steps) == 0 {
		t.Fatal("expected division steps")
	}
	last := resp.Steps[len(resp.Steps)-1]
	if last[3] != "2" {
		t.Fatalf("expected final remainder 2, got %q", last[3])
	}
}

func TestCatalogListsEveryCalculator(t *testing.T) {
	h := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/api/calculators/", nil), h)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var entries []CatalogEntry
	testutil.DecodeJSONBody(t, w.Body, &entries)
	if len(entries) != len(Catalog()) {
		t.Fatalf("expected %d entries, got %d", len(Catalog()), len(entries))
	}
}

func TestBatchContinuesPastRejectedItems(t *testing.T) {
	h := newTestRouter(t)

	body := `{"items":[
		{"calculator":"math/gcd","inputs":{"numbers":"12 18 24"}},
		{"calculator":"math/lcm","inputs":{"numbers":"0 3"}},
		{"calculator":"math/missing","inputs":{}},
		{"calculator":"cipher/caesar","inputs":{"text":"abc","shift":"1"}}
	]}`
	w := post(t, h, "/api/calculators/batch", body)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp BatchResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if len(resp.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(resp.Results))
	}
	if resp.Failed != 2 {
		t.Fatalf("expected 2 failed items, got %d", resp.Failed)
	}
	if resp.Results[0].Error != "" || len(resp.Results[0].Outputs) != 1 {
		t.Fatalf("expected gcd to succeed, got %#v", resp.Results[0])
	}
	if resp.Results[1].Code != formula.CodeZeroElement {
		t.Fatalf("expected code %q, got %q", formula.CodeZeroElement, resp.Results[1].Code)
	}
	if resp.Results[2].Code != "unknown_calculator" {
		t.Fatalf("expected unknown_calculator, got %q", resp.Results[2].Code)
	}
	if got := resp.Results[3].Outputs[0].Value; got != "bcd" {
		t.Fatalf("expected caesar output bcd, got %#v", got)
	}
}

func TestBatchRejectsEmptyAndOversized(t *testing.T) {
	h := newTestRouter(t)

	w := post(t, h, "/api/calculators/batch", `{"items":[]}`)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	var buf bytes.Buffer
	buf.WriteString(`{"items":[`)
	for i := 0; i <= maxBatchItems; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"calculator":"math/gcd","inputs":{"numbers":"4 6"}}`)
	}
	buf.WriteString(`]}`)
	w = post(t, h, "/api/calculators/batch", buf.String())
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}
