// Package cache implements a persisted, expiring response cache that sits in
// front of an HTTP client as its transport. Only requests whose URL matches a
// configured pattern for their method are stored.
package cache

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/papapumpkin/trackr/internal/clock"
	"github.com/papapumpkin/trackr/internal/logging"
)

// DefaultExpire is how long a stored response stays valid.
const DefaultExpire = 12 * time.Hour

// Response is the stored form of an HTTP response.
type Response struct {
	Status int         `cbor:"status"`
	Header http.Header `cbor:"header"`
	Body   []byte      `cbor:"body"`
}

// Entry is one cached response for a URL. Args distinguishes requests to the
// same URL with different query strings or bodies.
type Entry struct {
	Args   string   `cbor:"args"`
	Expire int64    `cbor:"expire"`
	Value  Response `cbor:"value"`
}

// Valid reports whether the entry has not yet expired at now.
func (e Entry) Valid(now time.Time) bool {
	return now.UnixNano() < e.Expire
}

// Stats is a diagnostic snapshot of cache activity.
type Stats struct {
	// Calls counts requests per "METHOD URL" key, cached or not.
	Calls map[string]int
	// Hits counts requests answered from the cache.
	Hits int
	// URLs is the number of distinct keys holding entries.
	URLs int
	// Entries is the total number of stored entries.
	Entries int
}

// Cache is an http.RoundTripper that answers matching requests from stored
// responses. It is safe for concurrent use.
type Cache struct {
	expire   time.Duration
	patterns map[string][]*regexp.Regexp
	clock    clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	entries map[string][]Entry
	calls   map[string]int
	hits    int
	breaks  map[string]bool

	next http.RoundTripper
}

// Option configures a Cache.
type Option func(*Cache)

// WithExpire sets how long stored responses stay valid.
func WithExpire(d time.Duration) Option {
	return func(c *Cache) { c.expire = d }
}

// WithPatterns sets the cacheable URL patterns per HTTP method.
func WithPatterns(p map[string][]*regexp.Regexp) Option {
	return func(c *Cache) { c.patterns = p }
}

// WithClock sets the time source used for expiry.
func WithClock(clk clock.Clock) Option {
	return func(c *Cache) { c.clock = clk }
}

// WithLogger sets the logger used for hit and miss tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithTransport sets the transport used for misses. Install sets it from the
// client it wraps.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Cache) { c.next = rt }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		expire:  DefaultExpire,
		clock:   clock.Real(),
		logger:  logging.Discard(),
		entries: make(map[string][]Entry),
		calls:   make(map[string]int),
		breaks:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompilePatterns compiles a method to regex-list mapping. Method names are
// upper-cased.
func CompilePatterns(raw map[string][]string) (map[string][]*regexp.Regexp, error) {
	out := make(map[string][]*regexp.Regexp, len(raw))
	for method, list := range raw {
		method = strings.ToUpper(method)
		for _, expr := range list {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("cache pattern %q for %s: %w", expr, method, err)
			}
			out[method] = append(out[method], re)
		}
	}
	return out, nil
}

// Install makes c the transport of client. Requests that miss are sent
// through the client's previous transport.
func (c *Cache) Install(client *http.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client.Transport == c {
		return
	}
	c.next = client.Transport
	client.Transport = c
}

// Uninstall restores the transport client had before Install. It is a no-op
// when no cache is installed on client.
func Uninstall(client *http.Client) {
	c, ok := client.Transport.(*Cache)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	client.Transport = c.next
}

// Break registers a method and URL that must fail with ErrUserBreak.
func (c *Cache) Break(method, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breaks[strings.ToUpper(method)+" "+url] = true
}

func (c *Cache) transport() http.RoundTripper {
	if c.next != nil {
		return c.next
	}
	return http.DefaultTransport
}

// cacheKey returns the "METHOD URL" key, with the query string excluded,
// and the URL text the patterns are matched against.
func cacheKey(req *http.Request) (key, target string) {
	u := *req.URL
	u.RawQuery = ""
	u.Fragment = ""
	target = u.String()
	return req.Method + " " + target, target
}

// requestArgs identifies the request within its URL slot: the raw query and
// a digest of the body.
func requestArgs(req *http.Request) (string, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req.URL.RawQuery, nil
	}
	var body []byte
	var err error
	if req.GetBody != nil {
		rc, gerr := req.GetBody()
		if gerr != nil {
			return "", gerr
		}
		body, err = io.ReadAll(rc)
		rc.Close()
	} else {
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	if err != nil {
		return "", fmt.Errorf("reading request body: %w", err)
	}
	sum := blake3.Sum256(body)
	return req.URL.RawQuery + "\x00" + hex.EncodeToString(sum[:]), nil
}

// closeBody releases the request body on paths that never reach the
// underlying transport.
func closeBody(req *http.Request) {
	if req.Body != nil {
		req.Body.Close()
	}
}

func (c *Cache) matches(method, target string) bool {
	for _, re := range c.patterns[method] {
		if re.MatchString(target) {
			return true
		}
	}
	return false
}

// RoundTrip implements http.RoundTripper.
func (c *Cache) RoundTrip(req *http.Request) (*http.Response, error) {
	key, target := cacheKey(req)
	args, err := requestArgs(req)
	if err != nil {
		closeBody(req)
		return nil, err
	}

	c.mu.Lock()
	c.calls[key]++
	if c.breaks[key] {
		c.mu.Unlock()
		closeBody(req)
		return nil, fmt.Errorf("%w: %s", ErrUserBreak, key)
	}
	if e, ok := c.lookup(key, args); ok {
		c.hits++
		c.mu.Unlock()
		closeBody(req)
		c.logger.Debug("cache hit", "request", key)
		return e.Value.toHTTP(req), nil
	}
	cacheable := c.matches(req.Method, target)
	c.mu.Unlock()

	resp, err := c.transport().RoundTrip(req)
	if err != nil || !cacheable {
		return resp, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := Entry{
		Args:   args,
		Expire: c.clock.Now().Add(c.expire).UnixNano(),
		Value:  Response{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body},
	}
	c.mu.Lock()
	c.entries[key] = append(c.entries[key], entry)
	c.mu.Unlock()
	c.logger.Debug("cache store", "request", key, "bytes", len(body))
	return resp, nil
}

// lookup finds a live entry for key and args. An expired match is removed.
// The caller holds c.mu.
func (c *Cache) lookup(key, args string) (Entry, bool) {
	list := c.entries[key]
	for i, e := range list {
		if e.Args != args {
			continue
		}
		if e.Valid(c.clock.Now()) {
			return e, true
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(c.entries, key)
		} else {
			c.entries[key] = list
		}
		return Entry{}, false
	}
	return Entry{}, false
}

func (r Response) toHTTP(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", r.Status, http.StatusText(r.Status)),
		StatusCode:    r.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        r.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}

// Flush removes every expired entry and returns how many were removed.
func (c *Cache) Flush() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	removed := 0
	for key, list := range c.entries {
		kept := list[:0]
		for _, e := range list {
			if e.Valid(now) {
				kept = append(kept, e)
			} else {
				removed++
			}
		}
		if len(kept) == 0 {
			delete(c.entries, key)
		} else {
			c.entries[key] = kept
		}
	}
	return removed
}

// Dump returns a snapshot of the diagnostic counters.
func (c *Cache) Dump() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Calls: make(map[string]int, len(c.calls)), Hits: c.hits, URLs: len(c.entries)}
	for k, v := range c.calls {
		s.Calls[k] = v
	}
	for _, list := range c.entries {
		s.Entries += len(list)
	}
	return s
}

// Keys returns the keys currently holding entries, sorted.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
