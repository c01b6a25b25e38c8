package nominatim

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Harish01234/vahanseva/internal/domain/types"
)

func TestGeocode_ParsesFirstMatch(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"28.6139391","lon":"77.2090212","display_name":"Connaught Place, New Delhi"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "vahanseva-test/1.0", time.Second)

	loc, err := c.Geocode(context.Background(), "Connaught Place, Delhi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Latitude != 28.6139391 || loc.Longitude != 77.2090212 {
		t.Fatalf("unexpected coordinates: %+v", loc)
	}
	if loc.Address != "Connaught Place, New Delhi" {
		t.Fatalf("unexpected address: %q", loc.Address)
	}
	if gotUA != "vahanseva-test/1.0" {
		t.Fatalf("User-Agent not sent, got %q", gotUA)
	}
	if gotQuery != "Connaught Place, Delhi" {
		t.Fatalf("query not url-encoded correctly, got %q", gotQuery)
	}
}

func TestGeocode_ZeroMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "vahanseva-test/1.0", time.Second)

	_, err := c.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, types.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestGeocode_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"lat":"1.0","lon":"2.0","display_name":"x"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "vahanseva-test/1.0", time.Second)

	loc, err := c.Geocode(context.Background(), "flappy endpoint")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if loc.Latitude != 1.0 || loc.Longitude != 2.0 {
		t.Fatalf("unexpected coordinates: %+v", loc)
	}
}

func TestGeocode_ClientErrorNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "vahanseva-test/1.0", time.Second)

	if _, err := c.Geocode(context.Background(), "blocked"); err == nil {
		t.Fatal("expected an error for 403 response")
	}
	if calls != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", calls)
	}
}

func TestGeocode_MalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"not-a-number","lon":"2.0"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "vahanseva-test/1.0", time.Second)

	if _, err := c.Geocode(context.Background(), "garbage"); err == nil {
		t.Fatal("expected parse error")
	}
}
