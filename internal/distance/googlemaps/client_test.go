package googlemaps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/distance"
)

// mockHTTPClient wraps http.Client to implement HTTPDoer interface.
type mockHTTPClient struct {
	client *http.Client
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.client.Do(req)
}

const successResponse = `{
	"status": "OK",
	"routes": [
		{
			"summary": "I-10 E",
			"overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC"},
			"legs": [
				{
					"distance": {"value": 563270, "text": "350 mi"},
					"duration": {"value": 23400, "text": "6 hours 30 mins"}
				}
			]
		}
	]
}`

func TestClient_Directions_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/directions/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "mock123" {
			t.Errorf("expected key 'mock123', got '%s'", q.Get("key"))
		}
		if q.Get("mode") != "driving" {
			t.Errorf("expected mode 'driving', got '%s'", q.Get("mode"))
		}
		if q.Get("origin") != "Houston, TX" {
			t.Errorf("unexpected origin '%s'", q.Get("origin"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(successResponse))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	dirs, err := client.Directions(context.Background(), "Houston, TX", "New Orleans, LA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 563270 meters rounds to 350 miles.
	if dirs.DistanceMiles != 350 {
		t.Errorf("expected distance 350, got %v", dirs.DistanceMiles)
	}
	// 23400 seconds is 6.5 hours.
	if dirs.DurationHours != 6.5 {
		t.Errorf("expected duration 6.5, got %v", dirs.DurationHours)
	}
	if dirs.Summary != "I-10 E" {
		t.Errorf("expected summary 'I-10 E', got '%s'", dirs.Summary)
	}
	if len(dirs.Geometry) == 0 {
		t.Error("expected decoded geometry from overview polyline")
	}
	if dirs.Provider != ProviderName {
		t.Errorf("expected provider %s, got %s", ProviderName, dirs.Provider)
	}
}

func TestClient_Directions_ZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ZERO_RESULTS", "routes": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.Directions(context.Background(), "Houston, TX", "Honolulu, HI")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var dErr *distance.Error
	if !errors.As(err, &dErr) {
		t.Fatalf("expected distance.Error, got %T", err)
	}
	if !errors.Is(dErr.Err, distance.ErrNoRouteFound) {
		t.Errorf("expected ErrNoRouteFound, got %v", dErr.Err)
	}
}

func TestClient_Directions_OverQueryLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "OVER_QUERY_LIMIT", "routes": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.Directions(context.Background(), "Houston, TX", "Chicago, IL")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var dErr *distance.Error
	if !errors.As(err, &dErr) {
		t.Fatalf("expected distance.Error, got %T", err)
	}
	if !errors.Is(dErr.Err, distance.ErrRateLimitExceeded) {
		t.Errorf("expected ErrRateLimitExceeded, got %v", dErr.Err)
	}
}

func TestClient_Directions_RequestDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid.", "routes": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "bad-key",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.Directions(context.Background(), "Houston, TX", "Chicago, IL")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var dErr *distance.Error
	if !errors.As(err, &dErr) {
		t.Fatalf("expected distance.Error, got %T", err)
	}
	if !errors.Is(dErr.Err, distance.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", dErr.Err)
	}
}

func TestClient_Directions_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.Directions(context.Background(), "Houston, TX", "Chicago, IL")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var dErr *distance.Error
	if !errors.As(err, &dErr) {
		t.Fatalf("expected distance.Error, got %T", err)
	}
	if !errors.Is(dErr.Err, distance.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", dErr.Err)
	}
}

func TestClient_Name(t *testing.T) {
	client := NewClient(ClientConfig{
		APIKey: "test",
		Logger: zerolog.Nop(),
	})

	if client.Name() != ProviderName {
		t.Errorf("expected %s, got %s", ProviderName, client.Name())
	}
}
