package remote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amterp/palette/internal/api"
	palerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/remote"
)

// newServer serves the real /colors handlers over a temp data directory.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx, err := api.BuildServerContext(t.TempDir())
	if err != nil {
		t.Fatalf("BuildServerContext failed: %v", err)
	}
	mux := http.NewServeMux()
	api.NewHandler(ctx.ColorService).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPColorStore_RoundTrip(t *testing.T) {
	srv := newServer(t)
	s := remote.NewHTTPColorStore(srv.URL+"/", 5*time.Second)
	ctx := context.Background()

	colors, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if colors == nil || len(colors) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", colors)
	}

	created, err := s.Create(ctx, "Red", "#ff0000")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" || created.Hex != "#FF0000" {
		t.Errorf("Unexpected created color: %+v", created)
	}

	updated, err := s.Update(ctx, created.ID, "Crimson", "#DC143C")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Crimson" {
		t.Errorf("Name = %q, want Crimson", updated.Name)
	}

	colors, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(colors) != 1 || colors[0].ID != created.ID {
		t.Errorf("Expected one color %s, got %+v", created.ID, colors)
	}

	if err := s.Remove(ctx, created.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	colors, _ = s.List(ctx)
	if len(colors) != 0 {
		t.Errorf("Expected empty list after remove, got %+v", colors)
	}
}

func TestHTTPColorStore_RemoveUnknownIsNotFound(t *testing.T) {
	srv := newServer(t)
	s := remote.NewHTTPColorStore(srv.URL, 5*time.Second)

	err := s.Remove(context.Background(), "missing")
	if err == nil {
		t.Fatal("Expected error removing unknown id")
	}
	if !palerr.IsTransport(err) || !palerr.IsNotFound(err) {
		t.Errorf("Expected transport not-found error, got %v", err)
	}

	var te *palerr.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TransportError, got %T", err)
	}
	if te.StatusCode != http.StatusNotFound || te.Op != "delete" {
		t.Errorf("Unexpected transport error: %+v", te)
	}
	if te.Message == "" {
		t.Error("Expected server error message to be captured")
	}
}

func TestHTTPColorStore_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := remote.NewHTTPColorStore(srv.URL, time.Second).List(context.Background())
	var te *palerr.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TransportError, got %v", err)
	}
	if te.StatusCode != 500 || te.Message != "boom" {
		t.Errorf("Unexpected transport error: %+v", te)
	}
	if palerr.IsNotFound(err) {
		t.Error("500 must not be reported as not found")
	}
}

func TestHTTPColorStore_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := remote.NewHTTPColorStore(srv.URL, time.Second).List(context.Background())
	if !palerr.IsTransport(err) {
		t.Errorf("Expected transport error for malformed body, got %v", err)
	}
}

func TestHTTPColorStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := remote.NewHTTPColorStore(url, time.Second).List(context.Background())
	var te *palerr.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TransportError, got %v", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("Expected no status for connection failure, got %d", te.StatusCode)
	}
}

func TestHTTPColorStore_NumericIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 42, "name": "Red", "hex": "#FF0000"}]`))
	}))
	defer srv.Close()

	colors, err := remote.NewHTTPColorStore(srv.URL, time.Second).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(colors) != 1 || colors[0].ID != "42" {
		t.Errorf("Expected numeric id as string, got %+v", colors)
	}
}

func TestHTTPColorStore_EscapesIDs(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := remote.NewHTTPColorStore(srv.URL, time.Second).Remove(context.Background(), "a/b"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if gotPath != "/colors/a%2Fb" {
		t.Errorf("Path = %q, want escaped id", gotPath)
	}
}
