package cellr_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/mivui/cellr"
)

// The app is shared across tests: the prometheus middleware registers
// its collectors on the process-global registry and can only do so once.
var sharedApp = sync.OnceValues(func() (*fiber.App, error) {
	source, err := cellr.NewSource()
	if err != nil {
		return nil, err
	}

	return cellr.NewApp(source), nil
})

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	app, err := sharedApp()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return app
}

func TestHandleCell(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/cells/2c", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d; expected %d", resp.StatusCode, fiber.StatusOK)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != fiber.MIMEApplicationJSON {
		t.Errorf("content type = %q; expected %q", ct, fiber.MIMEApplicationJSON)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedETag := strconv.FormatUint(xxhash.Sum64(body), 16)
	if etag := resp.Header.Get(fiber.HeaderETag); etag != expectedETag {
		t.Errorf("etag = %q; expected %q", etag, expectedETag)
	}

	var g cellr.Geometry
	if err := json.Unmarshal(body, &g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Token != "2c" {
		t.Errorf("token = %q; expected %q", g.Token, "2c")
	}
	if g.ID != "3170534137668829184" {
		t.Errorf("id = %q; expected %q", g.ID, "3170534137668829184")
	}
	if g.Face != 1 || g.Level != 1 {
		t.Errorf("face/level = %d/%d; expected 1/1", g.Face, g.Level)
	}
	if g.Ellipsoid != "wgs84" {
		t.Errorf("ellipsoid = %q; expected %q", g.Ellipsoid, "wgs84")
	}
	if g.RangeMin != "2800000000000001" || g.RangeMax != "2fffffffffffffff" {
		t.Errorf("range = %q..%q", g.RangeMin, g.RangeMax)
	}
}

func TestHandleCellRejectsBadTokens(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "not hex", token: "zz"},
		{name: "too long", token: "00000000000000001"},
		{name: "valid hex but invalid id", token: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/cells/"+tt.token, nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close() //nolint:errcheck

			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("status = %d; expected %d", resp.StatusCode, fiber.StatusBadRequest)
			}

			var e struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(e.Error, "invalid cell token") {
				t.Errorf("error = %q; expected it to name the invalid token", e.Error)
			}
		})
	}
}

func TestHandleChildren(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/cells/2c/children", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d; expected %d", resp.StatusCode, fiber.StatusOK)
	}

	var children []cellr.Geometry
	if err := json.NewDecoder(resp.Body).Decode(&children); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(children) != 4 {
		t.Fatalf("len(children) = %d; expected 4", len(children))
	}

	expectedTokens := [4]string{"29", "2b", "2d", "2f"}
	for index, child := range children {
		if child.Token != expectedTokens[index] {
			t.Errorf("children[%d].Token = %q; expected %q", index, child.Token, expectedTokens[index])
		}
		if child.Level != 2 {
			t.Errorf("children[%d].Level = %d; expected 2", index, child.Level)
		}
	}
}

func TestHandleChildrenOfLeaf(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/cells/0000000000000001/children", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d; expected %d", resp.StatusCode, fiber.StatusUnprocessableEntity)
	}
}

func TestHandleParent(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedToken  string
	}{
		{
			name:           "immediate parent",
			target:         "/v1/cells/2f/parent",
			expectedStatus: fiber.StatusOK,
			expectedToken:  "2c",
		},
		{
			name:           "parent at the face root",
			target:         "/v1/cells/2f/parent?level=0",
			expectedStatus: fiber.StatusOK,
			expectedToken:  "3",
		},
		{
			name:           "parent at own level",
			target:         "/v1/cells/2f/parent?level=2",
			expectedStatus: fiber.StatusOK,
			expectedToken:  "2f",
		},
		{
			name:           "root has no parent",
			target:         "/v1/cells/1/parent",
			expectedStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:           "level deeper than the cell",
			target:         "/v1/cells/2f/parent?level=5",
			expectedStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:           "level is not an integer",
			target:         "/v1/cells/2f/parent?level=abc",
			expectedStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.target, nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close() //nolint:errcheck

			if resp.StatusCode != tt.expectedStatus {
				t.Fatalf("status = %d; expected %d", resp.StatusCode, tt.expectedStatus)
			}
			if tt.expectedToken == "" {
				return
			}

			var g cellr.Geometry
			if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if g.Token != tt.expectedToken {
				t.Errorf("token = %q; expected %q", g.Token, tt.expectedToken)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d; expected %d", resp.StatusCode, fiber.StatusOK)
	}

	var status struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("status = %q; expected %q", status.Status, "ok")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)

	// Realize one geometry so the counters have something to report.
	seed, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/v1/cells/2c", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seed.Body.Close() //nolint:errcheck
	if seed.StatusCode != fiber.StatusOK {
		t.Fatalf("seed status = %d; expected %d", seed.StatusCode, fiber.StatusOK)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d; expected %d", resp.StatusCode, fiber.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Domain counters and the request middleware live on the same
	// registry, so a single exposition carries both families.
	for _, metric := range []string{
		"cellr_geometry_cache_misses_total",
		"cellr_geometry_computed_total",
		"http_requests_total",
	} {
		if !strings.Contains(string(body), metric) {
			t.Errorf("metrics exposition is missing %s", metric)
		}
	}
}
