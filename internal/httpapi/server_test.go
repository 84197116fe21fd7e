package httpapi

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

	"github.com/martinemde/tandem/internal/config"
	"github.com/martinemde/tandem/internal/screenshot"
	"github.com/martinemde/tandem/internal/store"
	"github.com/martinemde/tandem/internal/team"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.ProjectsDir = t.TempDir()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	srv := New(cfg, st, nil, team.NewStateStore(nil), screenshot.New(""), nil)
	return srv, st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	rec := doJSON(t, srv.Handler(), "GET", "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
}

func TestProjectAndSessionEndpoints(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/projects", map[string]string{"name": "demo"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project = %d: %s", rec.Code, rec.Body.String())
	}
	var p store.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}

	// The project directory exists on disk.
	if _, err := os.Stat(filepath.Join(srv.cfg.ProjectsDir, p.ID)); err != nil {
		t.Errorf("project dir missing: %v", err)
	}

	rec = doJSON(t, h, "POST", "/api/projects/"+p.ID+"/sessions", map[string]string{"title": "chat"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session = %d", rec.Code)
	}
	var sess store.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, h, "GET", "/api/projects/"+p.ID+"/sessions", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), sess.ID) {
		t.Errorf("list sessions = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, "GET", "/api/projects/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown project = %d", rec.Code)
	}

	rec = doJSON(t, h, "POST", "/api/projects", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("nameless project = %d", rec.Code)
	}
}

func TestVisualEditEndpoint(t *testing.T) {
	srv, st := testServer(t)
	h := srv.Handler()

	p, err := st.CreateProject(context.Background(), "demo", "")
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(srv.cfg.ProjectsDir, p.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	src := `<div className="card">hello</div>`
	if err := os.WriteFile(filepath.Join(dir, "App.tsx"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h, "POST", "/api/projects/"+p.ID+"/visual-edit", map[string]any{
		"filepath": "App.tsx",
		"selector": "div.card",
		"styles":   map[string]string{"background-color": "#111"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("visual edit = %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Matched bool `json:"matched"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || !out.Matched {
		t.Fatalf("expected matched=true: %s", rec.Body.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "App.tsx"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "backgroundColor: '#111'") {
		t.Errorf("file not patched: %s", data)
	}

	// A selector that matches nothing leaves the file alone.
	rec = doJSON(t, h, "POST", "/api/projects/"+p.ID+"/visual-edit", map[string]any{
		"filepath": "App.tsx",
		"selector": "span.missing",
		"styles":   map[string]string{"color": "red"},
	})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"matched":false`) {
		t.Errorf("no-match should be 200 with matched=false: %d %s", rec.Code, rec.Body.String())
	}
}

func TestInteractionsEndpoint(t *testing.T) {
	srv, st := testServer(t)
	h := srv.Handler()
	ctx := context.Background()

	p, _ := st.CreateProject(ctx, "demo", "")
	sess, _ := st.CreateSession(ctx, p.ID, "run")

	var last int64
	for i := 0; i < 3; i++ {
		seq, err := st.AppendInteraction(ctx, sess.ID, "thought", map[string]int{"n": i})
		if err != nil {
			t.Fatal(err)
		}
		last = seq
	}

	rec := doJSON(t, h, "GET", "/api/sessions/"+sess.ID+"/interactions?after="+jsonNum(last-1), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("interactions = %d", rec.Code)
	}
	var out struct {
		Interactions []store.Interaction `json:"interactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Interactions) != 1 || out.Interactions[0].Seq != last {
		t.Errorf("expected exactly the last record, got %+v", out.Interactions)
	}

	rec = doJSON(t, h, "GET", "/api/sessions/"+sess.ID+"/interactions?after=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad after = %d", rec.Code)
	}
}

func TestStateResetEndpoint(t *testing.T) {
	srv, st := testServer(t)
	h := srv.Handler()

	p, _ := st.CreateProject(context.Background(), "demo", "")
	dir := filepath.Join(srv.cfg.ProjectsDir, p.ID)
	states := team.NewStateStore(nil)
	states.Save(dir, team.Snapshot{TeamState: json.RawMessage(`{"k":1}`)})

	rec := doJSON(t, h, "POST", "/api/projects/"+p.ID+"/state/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset = %d", rec.Code)
	}
	if _, ok := states.Load(dir); ok {
		t.Error("snapshot should be gone after reset")
	}
}

func jsonNum(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
