package dashboard_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazz-dev/svcboard/internal/dashboard"
	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/rows"
)

func TestRender_DataRows(t *testing.T) {
	b := rows.NewBuilder(nil)
	data := dashboard.Index{
		Title:        "svcboard",
		DirectoryURL: "http://localhost:8080",
		Rows: []rows.Row{
			b.Build(directory.Service{ID: "1", Name: "api", URL: "http://api.example.com", Status: "OK"}),
			b.Build(directory.Service{ID: "2", Name: "<script>x</script>", URL: "http://db.example.com", Status: "FAIL"}),
		},
	}

	var buf bytes.Buffer
	if err := dashboard.Render(&buf, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<a href="http://api.example.com">http://api.example.com</a>`,
		`class="alert alert-success">OK<`,
		`class="alert alert-danger">FAIL<`,
		`action="/services/delete"`,
		`name="serviceID" value="1"`,
		`name="serviceID" value="2"`,
		`name="serviceName"`,
		`name="serviceURL"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "<script>x</script>") {
		t.Error("expected service name to be escaped")
	}
	if strings.Index(out, "api.example.com") > strings.Index(out, "db.example.com") {
		t.Error("expected rows in listing order")
	}
}

func TestRender_EscapesDeleteID(t *testing.T) {
	b := rows.NewBuilder(nil)
	var buf bytes.Buffer
	err := dashboard.Render(&buf, dashboard.Index{Rows: []rows.Row{
		b.Build(directory.Service{ID: `a/b?c"d`, Name: "odd", URL: "http://x"}),
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `name="serviceID" value="a/b?c&#34;d"`) {
		t.Errorf("expected id carried in an escaped hidden field, got:\n%s", buf.String())
	}
}

func TestRender_NoDeleteControlWithoutID(t *testing.T) {
	b := rows.NewBuilder(nil)
	var buf bytes.Buffer
	err := dashboard.Render(&buf, dashboard.Index{Rows: []rows.Row{
		b.Build(directory.Service{Name: "ghost", URL: "http://ghost", Status: "OK"}),
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "ghost") {
		t.Error("expected the row to render")
	}
	if strings.Contains(out, "btn-danger") {
		t.Error("expected no delete control for an empty id")
	}
}

func TestRender_Placeholder(t *testing.T) {
	var buf bytes.Buffer
	err := dashboard.Render(&buf, dashboard.Index{Title: "svcboard", Rows: []rows.Row{rows.Placeholder("There are no services to show.")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `colspan="6"`) {
		t.Error("expected placeholder to span all columns")
	}
	if !strings.Contains(out, "There are no services to show.") {
		t.Error("expected placeholder message")
	}
	if strings.Count(out, "<tr") != 2 {
		t.Errorf("expected header row plus one body row, got %d rows", strings.Count(out, "<tr"))
	}
}

func TestHandler_ServesCSS(t *testing.T) {
	h := dashboard.Handler()
	req := httptest.NewRequest("GET", "/style.css", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for style.css, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if !strings.Contains(ct, "text/css") {
		t.Errorf("expected Content-Type text/css, got %q", ct)
	}
}

func TestHandler_DoesNotServeTemplates(t *testing.T) {
	h := dashboard.Handler()
	req := httptest.NewRequest("GET", "/index.html.tmpl", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for template path, got %d", w.Code)
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := dashboard.Handler()
	req := httptest.NewRequest("GET", "/does-not-exist.xyz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing asset, got %d", w.Code)
	}
}
