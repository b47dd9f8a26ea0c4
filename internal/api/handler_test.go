package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amterp/palette/internal/model"
)

// testAPI provides a complete test environment for API handler tests.
type testAPI struct {
	ctx *ServerContext
	mux *http.ServeMux
}

// setupTestAPI creates a test environment with a real file store in a temp directory.
func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	ctx, err := BuildServerContext(t.TempDir())
	if err != nil {
		t.Fatalf("BuildServerContext failed: %v", err)
	}

	mux := http.NewServeMux()
	NewHandler(ctx.ColorService).RegisterRoutes(mux)

	return &testAPI{ctx: ctx, mux: mux}
}

func (api *testAPI) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, req)
	return rec
}

func (api *testAPI) createColor(t *testing.T, name, hex string) model.Color {
	t.Helper()
	rec := api.request(t, "POST", "/colors", model.ColorInput{Name: name, Hex: hex})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s: status %d, body %s", name, rec.Code, rec.Body.String())
	}
	var c model.Color
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("Failed to decode color: %v", err)
	}
	return c
}

func decodeColors(t *testing.T, rec *httptest.ResponseRecorder) []model.Color {
	t.Helper()
	var colors []model.Color
	if err := json.Unmarshal(rec.Body.Bytes(), &colors); err != nil {
		t.Fatalf("Failed to decode colors: %v (body %s)", err, rec.Body.String())
	}
	return colors
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	return body["error"]
}

func TestListColors_EmptyIsArray(t *testing.T) {
	api := setupTestAPI(t)

	rec := api.request(t, "GET", "/colors", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("Expected empty JSON array, got %s", got)
	}
}

func TestCreateColor(t *testing.T) {
	api := setupTestAPI(t)

	c := api.createColor(t, "  Sky Blue ", "#87ceeb")

	if c.ID == "" {
		t.Error("Expected server-assigned id")
	}
	if c.Name != "Sky Blue" {
		t.Errorf("Name = %q, want trimmed %q", c.Name, "Sky Blue")
	}
	if c.Hex != "#87CEEB" {
		t.Errorf("Hex = %q, want uppercased %q", c.Hex, "#87CEEB")
	}

	rec := api.request(t, "GET", "/colors", nil)
	colors := decodeColors(t, rec)
	if len(colors) != 1 || colors[0].ID != c.ID {
		t.Errorf("Expected listed color %s, got %+v", c.ID, colors)
	}
}

func TestCreateColor_Validation(t *testing.T) {
	api := setupTestAPI(t)

	tests := []struct {
		name  string
		input model.ColorInput
	}{
		{"empty name", model.ColorInput{Name: "   ", Hex: "#FF0000"}},
		{"name too long", model.ColorInput{Name: strings.Repeat("x", 51), Hex: "#FF0000"}},
		{"short hex", model.ColorInput{Name: "Red", Hex: "#FFF"}},
		{"missing hash", model.ColorInput{Name: "Red", Hex: "FF0000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.request(t, "POST", "/colors", tt.input)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			if errorMessage(t, rec) == "" {
				t.Error("Expected error message in body")
			}
		})
	}
}

func TestCreateColor_InvalidJSON(t *testing.T) {
	api := setupTestAPI(t)

	req := httptest.NewRequest("POST", "/colors", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestCreateColor_AllowsDuplicates(t *testing.T) {
	api := setupTestAPI(t)

	api.createColor(t, "Red", "#FF0000")
	api.createColor(t, "Red", "#FF0000")

	colors := decodeColors(t, api.request(t, "GET", "/colors", nil))
	if len(colors) != 2 {
		t.Errorf("Expected server to store both colors, got %d", len(colors))
	}
}

func TestGetColor(t *testing.T) {
	api := setupTestAPI(t)
	c := api.createColor(t, "Red", "#FF0000")

	rec := api.request(t, "GET", "/colors/"+c.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = api.request(t, "GET", "/colors/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestUpdateColor(t *testing.T) {
	api := setupTestAPI(t)
	c := api.createColor(t, "Red", "#FF0000")

	rec := api.request(t, "PUT", "/colors/"+c.ID, model.ColorInput{Name: "Crimson", Hex: "#dc143c"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated model.Color
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.ID != c.ID || updated.Name != "Crimson" || updated.Hex != "#DC143C" {
		t.Errorf("Unexpected updated color: %+v", updated)
	}

	rec = api.request(t, "PUT", "/colors/missing", model.ColorInput{Name: "X", Hex: "#000000"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestDeleteColor(t *testing.T) {
	api := setupTestAPI(t)
	c := api.createColor(t, "Red", "#FF0000")
	keep := api.createColor(t, "Blue", "#0000FF")

	rec := api.request(t, "DELETE", "/colors/"+c.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}

	colors := decodeColors(t, api.request(t, "GET", "/colors", nil))
	if len(colors) != 1 || colors[0].ID != keep.ID {
		t.Errorf("Expected only %s to remain, got %+v", keep.ID, colors)
	}

	rec = api.request(t, "DELETE", "/colors/"+c.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", rec.Code)
	}
}

func TestVersionedRoutes(t *testing.T) {
	api := setupTestAPI(t)

	rec := api.request(t, "POST", "/api/v1/colors", model.ColorInput{Name: "Red", Hex: "#FF0000"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}

	colors := decodeColors(t, api.request(t, "GET", "/colors", nil))
	if len(colors) != 1 {
		t.Errorf("Expected both prefixes to share one collection, got %d colors", len(colors))
	}
}

func TestHealth(t *testing.T) {
	api := setupTestAPI(t)

	rec := api.request(t, "GET", "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestFavicon(t *testing.T) {
	api := setupTestAPI(t)
	api.createColor(t, "Red", "#FF0000")

	rec := api.request(t, "GET", "/favicon.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `fill="#FF0000"`) {
		t.Errorf("Expected favicon to use palette color, got %s", rec.Body.String())
	}
}

func TestGenerateFaviconSVG_Defaults(t *testing.T) {
	svg := GenerateFaviconSVG([]model.Color{{Name: "bad", Hex: `"><script>`}})

	if strings.Contains(svg, "<script>") {
		t.Error("Invalid hex must not be embedded")
	}
	if got := strings.Count(svg, "<rect"); got != 4 {
		t.Errorf("Expected 4 swatches, got %d", got)
	}
	for _, hex := range defaultFaviconColors {
		if !strings.Contains(svg, hex) {
			t.Errorf("Expected default swatch %s", hex)
		}
	}
}

func TestStaticIndex(t *testing.T) {
	api := setupTestAPI(t)

	rec := api.request(t, "GET", "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>Palette</title>") {
		t.Error("Expected embedded index.html")
	}
}

func TestCors_Preflight(t *testing.T) {
	handler := Cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Preflight should not reach the wrapped handler")
	}))

	req := httptest.NewRequest("OPTIONS", "/colors", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS origin header")
	}
}

func TestLogging_CapturesStatus(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/colors", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected wrapped status to pass through, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	api := setupTestAPI(t)
	api.createColor(t, "Red", "#FF0000")

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "palette_colors_created_total") {
		t.Error("Expected palette_colors_created_total in metrics output")
	}
}
