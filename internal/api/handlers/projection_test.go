package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"brasero-forecast/internal/api/models"
	"brasero-forecast/internal/model"
	"brasero-forecast/internal/projection"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, presetDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	presets := NewPresetHandler(presetDir)
	h := NewProjectionHandler(presets)
	h.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.POST("/projection", h.Project)
	r.POST("/projection/scenarios", h.CompareScenarios)
	r.POST("/projection/sensitivity", h.Sensitivity)
	r.POST("/projection/wear", h.Wear)
	r.POST("/projection/actuals", h.Actuals)
	r.POST("/projection/report", h.Report)
	r.GET("/scenarios", ListScenarios)
	r.GET("/presets", presets.ListPresets)
	return r
}

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestProject_DefaultPreset(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection", `{"preset":"default","start_month":"2026-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}

	var resp models.ProjectionResponse
	decode(t, w, &resp)
	if resp.ID == "" {
		t.Fatalf("expected an id")
	}
	if !almostEqual(resp.Indicators.Brasero.Revenue, 26000) {
		t.Fatalf("brasero revenue: got %v want 26000", resp.Indicators.Brasero.Revenue)
	}
	if !almostEqual(resp.Indicators.Chiffres.Revenue, 13505) {
		t.Fatalf("chiffres revenue: got %v want 13505", resp.Indicators.Chiffres.Revenue)
	}
	if !almostEqual(resp.Indicators.TotalRevenue, 39505) {
		t.Fatalf("total revenue: got %v want 39505", resp.Indicators.TotalRevenue)
	}
	if len(resp.CashFlow) != 12 {
		t.Fatalf("cash flow months: got %d want 12", len(resp.CashFlow))
	}
	if resp.CashFlow[0].Label != "2026-01" || resp.CashFlow[11].Label != "2026-12" {
		t.Fatalf("labels: got %s..%s", resp.CashFlow[0].Label, resp.CashFlow[11].Label)
	}
	if resp.Indicators.BreakEvenDays == nil {
		t.Fatalf("break-even should be defined")
	}
}

func TestProject_DefaultsToCurrentMonth(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection", `{"preset":"default"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	var resp models.ProjectionResponse
	decode(t, w, &resp)
	if resp.CashFlow[0].Label != "2026-03" {
		t.Fatalf("first month: got %s want 2026-03", resp.CashFlow[0].Label)
	}
}

func TestProject_InvalidAssumption(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection", `{"preset":"default","assumptions":{"brasero":{"lifetime_years":-1}}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
	var resp models.ErrorResponse
	decode(t, w, &resp)
	if resp.Error.Code != "INVALID_ASSUMPTION" {
		t.Fatalf("code: got %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "brasero.lifetime_years" {
		t.Fatalf("field: got %v", resp.Error.Details["field"])
	}
}

func TestProject_ExplicitZeroOverDefaultPreset(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	body := `{"preset":"default","start_month":"2026-01",
		"assumptions":{"levies":{"flat_tax":0},"brasero":{"unit_cost":0},"chiffres":{"unit_cost":0}}}`
	w := postJSON(t, r, "/projection", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	var resp models.ProjectionResponse
	decode(t, w, &resp)
	if resp.Indicators.Levies.FlatTax != 0 {
		t.Fatalf("flat tax should be 0, got %v", resp.Indicators.Levies.FlatTax)
	}
	if !almostEqual(resp.Indicators.Levies.Total, 39505*(0.212+0.003)) {
		t.Fatalf("levies total: got %v", resp.Indicators.Levies.Total)
	}
	if resp.Indicators.ROITotalPct != 0 {
		t.Fatalf("zero cost ROI should be guarded to 0, got %v", resp.Indicators.ROITotalPct)
	}
	if resp.Assumptions.Levies.SocialContribution != 0.212 {
		t.Fatalf("absent keys should keep the preset, got %+v", resp.Assumptions.Levies)
	}
}

func TestProject_UnknownPreset(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection", `{"preset":"nope"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want 404", w.Code)
	}
	var resp models.ErrorResponse
	decode(t, w, &resp)
	if resp.Error.Code != "PRESET_NOT_FOUND" {
		t.Fatalf("code: got %s", resp.Error.Code)
	}
}

func TestProject_PresetPathTraversal(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection", `{"preset":"../config"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want 404", w.Code)
	}
}

func TestProject_UnknownScenario(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection", `{"preset":"default","scenario":"apocalyptic"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
	var resp models.ErrorResponse
	decode(t, w, &resp)
	if resp.Error.Code != "UNKNOWN_SCENARIO" {
		t.Fatalf("code: got %s", resp.Error.Code)
	}
}

func TestProject_InvalidStartMonth(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection", `{"preset":"default","start_month":"January"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
}

func TestProject_NoRentalDaysHasNullBreakEven(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	body := `{
		"assumptions": {
			"brasero": {"unit_cost": 1500, "lifetime_years": 5, "annual_rental_days": 0,
				"packs": {"pack1": 1}, "tariffs": {"pack1": 150}},
			"chiffres": {"unit_cost": 1075, "lifetime_years": 5, "occupancy_rate": 0,
				"packs": {"pack1": 1}, "tariffs": {"pack1": 50}},
			"levies": {"social_contribution": 0.212, "flat_tax": 0.017, "training_levy": 0.003, "threshold": 77700},
			"operations": {"avg_distance_km": 30, "fuel_price_per_litre": 1.85}
		},
		"start_month": "2026-01"
	}`
	w := postJSON(t, r, "/projection", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"break_even_days":null`) {
		t.Fatalf("expected null break_even_days, got %s", w.Body.String())
	}
	var resp models.ProjectionResponse
	decode(t, w, &resp)
	if resp.Indicators.TotalRevenue != 0 || resp.Indicators.NetMarginPct != 0 {
		t.Fatalf("expected zero revenue and guarded margin, got %+v", resp.Indicators)
	}
}

func TestCompareScenarios_Presets(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection/scenarios", `{"preset":"default","start_month":"2026-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	var resp models.ScenarioCompareResponse
	decode(t, w, &resp)
	if len(resp.Comparison) != 3 {
		t.Fatalf("scenarios: got %d want 3", len(resp.Comparison))
	}
	pess, med, opt := resp.Comparison[0], resp.Comparison[1], resp.Comparison[2]
	if med.Scenario.Name != "median" || !almostEqual(med.Indicators.TotalRevenue, 39505) {
		t.Fatalf("median: got %s revenue=%v", med.Scenario.Name, med.Indicators.TotalRevenue)
	}
	if !(pess.Indicators.TotalRevenue < med.Indicators.TotalRevenue && med.Indicators.TotalRevenue < opt.Indicators.TotalRevenue) {
		t.Fatalf("revenue not ordered: %v %v %v", pess.Indicators.TotalRevenue, med.Indicators.TotalRevenue, opt.Indicators.TotalRevenue)
	}
}

func TestCompareScenarios_CustomVariation(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	body := `{"preset":"default","start_month":"2026-01",
		"variations":[{"name":"double","day_factor":2,"rate_factor":1,"price_factor":1,"fuel_factor":1}]}`
	w := postJSON(t, r, "/projection/scenarios", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	var resp models.ScenarioCompareResponse
	decode(t, w, &resp)
	if len(resp.Comparison) != 1 {
		t.Fatalf("scenarios: got %d want 1", len(resp.Comparison))
	}
	if got := resp.Comparison[0].Indicators.Brasero.Revenue; !almostEqual(got, 52000) {
		t.Fatalf("brasero revenue: got %v want 52000", got)
	}
}

func TestCompareScenarios_VariationWithoutName(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection/scenarios", `{"preset":"default","variations":[{"day_factor":1}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
}

func TestSensitivity_RankedBySwing(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection/sensitivity", `{"preset":"default"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	var resp models.SensitivityResponse
	decode(t, w, &resp)
	if resp.Step != 0.10 {
		t.Fatalf("step: got %v", resp.Step)
	}
	if len(resp.Impacts) == 0 {
		t.Fatalf("expected impacts")
	}
	for i := 1; i < len(resp.Impacts); i++ {
		if resp.Impacts[i].Swing > resp.Impacts[i-1].Swing {
			t.Fatalf("impacts not sorted at %d", i)
		}
		if resp.Impacts[i].Rank != i+1 {
			t.Fatalf("rank at %d: got %d", i, resp.Impacts[i].Rank)
		}
	}
}

func TestSensitivity_StepOutOfRange(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection/sensitivity", `{"preset":"default","step":1.5}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
}

func TestWear(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	body := `{"preset":"default","as_of":"2026-01-01","brasero_purchased":"2019-01-01","chiffres_purchased":"2025-01-01"}`
	w := postJSON(t, r, "/projection/wear", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	var resp models.WearResponse
	decode(t, w, &resp)
	if len(resp.Wear) != 2 {
		t.Fatalf("wear rows: got %d want 2", len(resp.Wear))
	}
	if !resp.Wear[0].FullyDepreciated || resp.Wear[0].BookValue != 0 {
		t.Fatalf("brasero after 7 years should be fully depreciated: %+v", resp.Wear[0])
	}
	if resp.Wear[1].FullyDepreciated {
		t.Fatalf("chiffres after 1 year should not be fully depreciated: %+v", resp.Wear[1])
	}
}

func TestWear_InvalidDate(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	w := postJSON(t, r, "/projection/wear", `{"preset":"default","brasero_purchased":"01/02/2024"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
	var resp models.ErrorResponse
	decode(t, w, &resp)
	if resp.Error.Code != "INVALID_DATE" {
		t.Fatalf("code: got %s", resp.Error.Code)
	}
}

func multipartActuals(t *testing.T, request, csv string) *http.Request {
	t.Helper()
	return multipartActualsField(t, "assumptions", request, csv)
}

func multipartActualsField(t *testing.T, field, request, csv string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if request != "" {
		if err := mw.WriteField(field, request); err != nil {
			t.Fatal(err)
		}
	}
	if csv != "" {
		fw, err := mw.CreateFormFile("file", "revenue.csv")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(csv)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/projection/actuals", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestActuals_Upload(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	csv := "date,revenue\n2026-01-10,1000\n2026-01-20,2000\n2026-02-14,4000\n2025-06-01,999\n"
	req := multipartActuals(t, `{"preset":"default","start_month":"2026-01"}`, csv)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}

	var resp models.ActualsResponse
	decode(t, w, &resp)
	if len(resp.Comparison) != 2 {
		t.Fatalf("comparison rows: got %d want 2", len(resp.Comparison))
	}
	monthly := 39505.0 / 12
	if !almostEqual(resp.MonthlyForecast, monthly) {
		t.Fatalf("monthly forecast: got %v want %v", resp.MonthlyForecast, monthly)
	}
	jan := resp.Comparison[0]
	if jan.Label != "2026-01" || !almostEqual(jan.Actual, 3000) || !almostEqual(jan.Variance, 3000-monthly) {
		t.Fatalf("january: %+v", jan)
	}
	if !almostEqual(resp.TotalActual, 7000) || !almostEqual(resp.TotalForecast, 2*monthly) {
		t.Fatalf("totals: actual=%v forecast=%v", resp.TotalActual, resp.TotalForecast)
	}
}

func TestActuals_AssumptionsFieldAppliesScenarioAndStart(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	csv := "date,revenue\n2026-01-15,4000\n"
	req := multipartActuals(t, `{"preset":"default","start_month":"2026-01","scenario":"optimistic"}`, csv)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}

	var resp models.ActualsResponse
	decode(t, w, &resp)
	if len(resp.Comparison) != 1 || resp.Comparison[0].Label != "2026-01" {
		t.Fatalf("expected one row for 2026-01, got %+v", resp.Comparison)
	}
	optimistic := projection.New().ComputeIndicators(projection.Optimistic.Apply(model.DefaultAssumptions()))
	if !almostEqual(resp.MonthlyForecast, optimistic.MonthlyRevenue()) {
		t.Fatalf("monthly forecast: got %v want %v", resp.MonthlyForecast, optimistic.MonthlyRevenue())
	}
	if resp.MonthlyForecast <= 39505.0/12 {
		t.Fatalf("optimistic forecast should exceed the median, got %v", resp.MonthlyForecast)
	}
}

func TestActuals_RequestFieldAlias(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	csv := "date,revenue\n2026-02-15,4000\n"
	req := multipartActualsField(t, "request", `{"preset":"default","start_month":"2026-02"}`, csv)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	var resp models.ActualsResponse
	decode(t, w, &resp)
	if len(resp.Comparison) != 1 || resp.Comparison[0].Label != "2026-02" {
		t.Fatalf("expected one row for 2026-02, got %+v", resp.Comparison)
	}
}

func TestActuals_MissingFile(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req := multipartActuals(t, `{"preset":"default"}`, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
	var resp models.ErrorResponse
	decode(t, w, &resp)
	if resp.Error.Code != "MISSING_FILE" {
		t.Fatalf("code: got %s", resp.Error.Code)
	}
}

func TestActuals_BadCSV(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req := multipartActuals(t, "", "foo,bar\n1,2\n")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
	var resp models.ErrorResponse
	decode(t, w, &resp)
	if resp.Error.Code != "INVALID_ACTUALS" {
		t.Fatalf("code: got %s", resp.Error.Code)
	}
}

func TestReport_PDF(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	body := `{"preset":"default","start_month":"2026-01","include_scenarios":true,
		"wear":{"as_of":"2026-01-01","brasero_purchased":"2024-01-01"}}`
	w := postJSON(t, r, "/projection/report", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type: got %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a PDF")
	}
}

func TestListScenarios(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/scenarios", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp struct {
		Scenarios []models.ScenarioInfo `json:"scenarios"`
	}
	decode(t, w, &resp)
	if len(resp.Scenarios) != 3 {
		t.Fatalf("scenarios: got %d want 3", len(resp.Scenarios))
	}
	if resp.Scenarios[0].Name != "pessimistic" || resp.Scenarios[0].FuelFactor != 1.1 {
		t.Fatalf("first scenario: %+v", resp.Scenarios[0])
	}
	if resp.Scenarios[0].Description == "" {
		t.Fatalf("expected a description")
	}
}

func writePreset(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListPresets(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "busy.yaml", "assumptions:\n  name: Busy\n  brasero:\n    annual_rental_days: 150\n")
	writePreset(t, dir, "notes.txt", "ignored")
	r := newTestRouter(t, dir)

	req := httptest.NewRequest(http.MethodGet, "/presets", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp struct {
		Presets []models.PresetInfo `json:"presets"`
	}
	decode(t, w, &resp)
	if len(resp.Presets) != 1 {
		t.Fatalf("presets: got %d want 1", len(resp.Presets))
	}
	p := resp.Presets[0]
	if p.ID != "busy" || p.Name != "Busy" || p.BraseroDays != 150 {
		t.Fatalf("preset: %+v", p)
	}
	if !almostEqual(p.ChiffresDays, 182.5) {
		t.Fatalf("chiffres days from default occupancy: got %v", p.ChiffresDays)
	}
}

func TestProject_NamedPreset(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "busy.yaml", "assumptions:\n  brasero:\n    annual_rental_days: 200\n")
	r := newTestRouter(t, dir)

	w := postJSON(t, r, "/projection", `{"preset":"busy","start_month":"2026-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	var resp models.ProjectionResponse
	decode(t, w, &resp)
	if !almostEqual(resp.Indicators.Brasero.Revenue, 52000) {
		t.Fatalf("brasero revenue: got %v want 52000", resp.Indicators.Brasero.Revenue)
	}
}
