// Package backend fetches the account snapshot and live quotes from the
// portfolio backend, and keeps an Engine fed with fresh snapshots.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/pdash"
)

// ErrQuoteNotFound is returned when the backend has no price for a symbol.
var ErrQuoteNotFound = errors.New("quote not found")

// Source provides account snapshots.
type Source interface {
	Snapshot(ctx context.Context) (*pdash.Snapshot, error)
}

// Quote is the latest known price of a symbol.
type Quote struct {
	Symbol   string
	Name     string
	Currency string
	Price    float64
}

// Client talks to the backend's JSON API.
type Client struct {
	base   *url.URL
	client *http.Client
	cfg    pdash.Config
}

// NewClient returns a client of the backend at addr. A nil client uses
// http.DefaultClient.
func NewClient(addr string, cfg pdash.Config, client *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(addr, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend address %q: %w", addr, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend address %q: scheme and host are required", addr)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{base: base, client: client, cfg: cfg}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path += path
	u.RawQuery = query.Encode()
	return u.String()
}

// get performs an HTTP GET request and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, addr string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return resp.Body, nil
}

// Snapshot fetches the current account snapshot.
func (c *Client) Snapshot(ctx context.Context) (*pdash.Snapshot, error) {
	body, err := c.get(ctx, c.endpoint("/api/portfolio", nil))
	if err != nil {
		return nil, fmt.Errorf("cannot fetch snapshot: %w", err)
	}
	defer body.Close()
	return pdash.DecodeSnapshot(body, c.cfg)
}

// quotePaths locates the quote fields in the backend response.
var quotePaths = map[string]string{
	"found":    "$.found",
	"symbol":   "$.symbol",
	"name":     "$.name",
	"currency": "$.currency",
	"price":    "$.price",
}

// Quote fetches the latest price of symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, errors.New("empty symbol")
	}
	body, err := c.get(ctx, c.endpoint("/api/quote", url.Values{"symbol": {symbol}}))
	if err != nil {
		return Quote{}, fmt.Errorf("cannot fetch quote %q: %w", symbol, err)
	}
	defer body.Close()

	var jobj any
	if err := json.NewDecoder(body).Decode(&jobj); err != nil {
		return Quote{}, fmt.Errorf("cannot decode quote %q: %w", symbol, err)
	}
	if found, _ := lookup(jobj, quotePaths["found"]).(bool); !found {
		return Quote{}, fmt.Errorf("%w: %s", ErrQuoteNotFound, symbol)
	}
	price, ok := lookup(jobj, quotePaths["price"]).(float64)
	if !ok || price <= 0 {
		return Quote{}, fmt.Errorf("%w: %s has no valid price", ErrQuoteNotFound, symbol)
	}
	q := Quote{Symbol: symbol, Price: price, Currency: "USD"}
	if s, ok := lookup(jobj, quotePaths["symbol"]).(string); ok && s != "" {
		q.Symbol = s
	}
	if s, ok := lookup(jobj, quotePaths["name"]).(string); ok {
		q.Name = s
	}
	if s, ok := lookup(jobj, quotePaths["currency"]).(string); ok && s != "" {
		q.Currency = s
	}
	return q, nil
}

// lookup returns the value at path in jobj, nil if there is none.
func lookup(jobj any, path string) any {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil
	}
	// jsonpath may return a list of one answer instead of the answer
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil
		}
		jval = jlist[0]
	}
	return jval
}

// File reads the snapshot from a JSON file, in the backend format.
type File struct {
	Path string
	cfg  pdash.Config
}

// NewFile returns a Source reading the snapshot in path.
func NewFile(path string, cfg pdash.Config) *File { return &File{Path: path, cfg: cfg} }

func (f *File) Snapshot(ctx context.Context) (*pdash.Snapshot, error) {
	r, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot read snapshot: %w", err)
	}
	defer r.Close()
	return pdash.DecodeSnapshot(r, f.cfg)
}
