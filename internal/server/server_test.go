package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mid "github.com/OFFIS-RIT/catalog-graph/internal/server/middleware"
	"github.com/OFFIS-RIT/catalog-graph/pkg/graph"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"

	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
)

type fakePublisher struct {
	keys   []string
	bodies [][]byte
}

func (p *fakePublisher) Publish(exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	p.keys = append(p.keys, key)
	p.bodies = append(p.bodies, msg.Body)
	return nil
}

func newTestServer(t *testing.T, app *mid.App) *echo.Echo {
	t.Helper()
	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
		RunID: func() (string, error) { return "server-run", nil },
	})
	if err != nil {
		t.Fatalf("NewGraphClient() error = %v", err)
	}
	app.Graph = client
	return New(app)
}

func uploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, &mid.App{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("GET /health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestConvertGrouped(t *testing.T) {
	e := newTestServer(t, &mid.App{})
	csv := "IdNum,Title,Creator,SerialNum\n1,Letter Home,Dr. John A. Smith,S1\n,Untitled,,\n"

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "/api/convert", "catalog.csv", csv))

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/convert = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Run-Id"); got != "server-run" {
		t.Fatalf("X-Run-Id = %q", got)
	}
	doc, err := jsonfile.DecodeGrouped(rec.Body)
	if err != nil {
		t.Fatalf("DecodeGrouped() error = %v", err)
	}
	if len(doc.Entities.Documents) != 1 || len(doc.Entities.People) != 1 || len(doc.Entities.Collection) != 1 {
		t.Fatalf("entities = %+v", doc.Entities)
	}
}

func TestConvertLines(t *testing.T) {
	e := newTestServer(t, &mid.App{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "/api/convert?format=jsonl", "catalog.csv", "IdNum,Title\n1,Vase\n"))

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/convert = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/x-ndjson" {
		t.Fatalf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	// Collection, Artifact and the belongsTo edge
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), rec.Body.String())
	}
}

func TestConvertRejectsBadRequests(t *testing.T) {
	e := newTestServer(t, &mid.App{})

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"missing file", httptest.NewRequest(http.MethodPost, "/api/convert", nil)},
		{"bad format", uploadRequest(t, "/api/convert?format=xml", "catalog.csv", "IdNum,Title\n1,Vase\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSchema(t *testing.T) {
	e := newTestServer(t, &mid.App{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schema", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/schema = %d", rec.Code)
	}
	var schema map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &schema); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if _, ok := schema["properties"]; !ok {
		t.Fatalf("schema has no properties: %v", schema)
	}
}

func TestCreateJob(t *testing.T) {
	pub := &fakePublisher{}
	e := newTestServer(t, &mid.App{Queue: pub})

	body := `{"input_key":"in/catalog.csv","output_key":"out/graph.json"}`
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("POST /api/jobs = %d: %s", rec.Code, rec.Body.String())
	}
	if len(pub.keys) != 1 || pub.keys[0] != "convert_queue" {
		t.Fatalf("published to %v", pub.keys)
	}
}

func TestCreateJobWithoutQueue(t *testing.T) {
	e := newTestServer(t, &mid.App{})
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
