package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/pdash"
	"github.com/google/go-cmp/cmp"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/portfolio", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "testdata/portfolio.json")
	})
	mux.HandleFunc("/api/quote", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("symbol") {
		case "AAPL":
			w.Write([]byte(`{"symbol": "AAPL", "price": 189.5, "name": "Apple Inc.", "currency": "USD", "found": true}`))
		case "VOD":
			w.Write([]byte(`{"symbol": "VOD.L", "price": 71.2, "currency": "GBp", "found": true}`))
		case "NOPRICE":
			w.Write([]byte(`{"symbol": "NOPRICE", "price": null, "found": true}`))
		default:
			w.Write([]byte(`{"symbol": "?", "price": null, "name": null, "currency": null, "found": false}`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, addr string) *Client {
	t.Helper()
	c, err := NewClient(addr, pdash.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewClient(%q) error = %v", addr, err)
	}
	return c
}

func TestNewClient_InvalidAddress(t *testing.T) {
	for _, addr := range []string{"", "localhost:8000", "://x"} {
		if _, err := NewClient(addr, pdash.DefaultConfig(), nil); err == nil {
			t.Errorf("NewClient(%q) succeeded, want an error", addr)
		}
	}
}

func TestClient_Snapshot(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL+"/")

	s, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(s.Positions) != 2 {
		t.Errorf("len(Positions) = %d, want 2", len(s.Positions))
	}
	if s.Positions[0].Symbol != "AAPL" {
		t.Errorf("first position = %q, want AAPL", s.Positions[0].Symbol)
	}
}

func TestClient_SnapshotHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	if _, err := newTestClient(t, srv.URL).Snapshot(context.Background()); err == nil {
		t.Error("Snapshot() succeeded on a 404, want an error")
	}
}

func TestClient_Quote(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL)

	testCases := []struct {
		name    string
		symbol  string
		want    Quote
		wantErr error
	}{
		{"Found", "aapl", Quote{Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD", Price: 189.5}, nil},
		{"Backend symbol and pence", "VOD", Quote{Symbol: "VOD.L", Currency: "GBp", Price: 71.2}, nil},
		{"Not found", "XXXX", Quote{}, ErrQuoteNotFound},
		{"No price", "NOPRICE", Quote{}, ErrQuoteNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Quote(context.Background(), tc.symbol)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("Quote(%q) error = %v, want %v", tc.symbol, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Quote(%q) error = %v", tc.symbol, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Quote(%q) mismatch (-want +got):\n%s", tc.symbol, diff)
			}
		})
	}
}

func TestFile_Snapshot(t *testing.T) {
	s, err := NewFile("testdata/portfolio.json", pdash.DefaultConfig()).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if !s.Account.NetLiquidityUSD.Equal(pdash.M(10000, "USD")) {
		t.Errorf("NetLiquidityUSD = %v, want 10000", s.Account.NetLiquidityUSD)
	}

	if _, err := NewFile("testdata/missing.json", pdash.DefaultConfig()).Snapshot(context.Background()); err == nil {
		t.Error("Snapshot() of a missing file succeeded, want an error")
	}
}
