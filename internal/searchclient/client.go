// Package searchclient is a debounced client for GET /api/search. Typing
// calls Input for every keystroke; the query is only issued once the input
// has been quiet for the configured delay, and any newer input cancels both
// the pending timer and the in-flight request.
package searchclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const DefaultDelay = 300 * time.Millisecond

type Count struct {
	Posts       int64 `json:"posts"`
	Subscribers int64 `json:"subscribers"`
}

type Buzz struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Count Count  `json:"_count"`
}

type Result struct {
	Query  string
	Buzzes []Buzz
}

type Option func(*Client)

func WithDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithErrorHandler receives failures of the current query only.
func WithErrorHandler(fn func(query string, err error)) Option {
	return func(c *Client) { c.onError = fn }
}

// Client callbacks run with the client lock held and must not call back
// into the Client.
type Client struct {
	baseURL  string
	http     *http.Client
	delay    time.Duration
	onResult func(Result)
	onError  func(string, error)

	mu     sync.Mutex
	text   string
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

func New(baseURL string, onResult func(Result), opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 5 * time.Second},
		delay:    DefaultDelay,
		onResult: onResult,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Input records text and re-arms the quiescence timer. Blank text cancels
// everything and never fires.
func (c *Client) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.text = text
	c.supersedeLocked()
	if strings.TrimSpace(text) == "" {
		return
	}
	gen := c.gen
	c.timer = time.AfterFunc(c.delay, func() { c.fire(gen, text) })
}

// Reset clears the input and cancels any pending or in-flight query.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = ""
	c.supersedeLocked()
}

func (c *Client) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *Client) supersedeLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Client) fire(gen uint64, text string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.timer = nil
	c.mu.Unlock()

	buzzes, err := c.fetch(ctx, text)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.cancel = nil
	if err != nil {
		if c.onError != nil {
			c.onError(text, err)
		}
		return
	}
	if c.onResult != nil {
		c.onResult(Result{Query: text, Buzzes: buzzes})
	}
}

func (c *Client) fetch(ctx context.Context, q string) ([]Buzz, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/search?q="+url.QueryEscape(q), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %q: unexpected status %d", q, resp.StatusCode)
	}
	var out []Buzz
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
