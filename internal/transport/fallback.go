package transport

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/ports"
)

// DefaultCallbackTimeout bounds the wait for the backend to invoke the
// callback on the fallback path.
const DefaultCallbackTimeout = 10 * time.Second

// Fallback implements the callback-convention transport: the request
// carries a uniquely named callback parameter and the backend replies with
// the payload wrapped in an invocation of that name. Used when the direct
// path is blocked by cross-origin policy or fails outright.
//
// Every registered callback name is released on every exit path (success,
// error, timeout) so no name leaks across requests.
type Fallback struct {
	base     string
	client   ports.HTTPClient
	timeout  time.Duration
	registry *callbackRegistry
	now      func() time.Time
}

// NewFallback creates a fallback transport for the given base URL.
func NewFallback(base string, client ports.HTTPClient, timeout time.Duration) *Fallback {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultCallbackTimeout
	}
	return &Fallback{
		base:     base,
		client:   client,
		timeout:  timeout,
		registry: newCallbackRegistry(),
		now:      time.Now,
	}
}

// Pending returns the number of callback names currently registered.
// It is zero whenever no request is in flight.
func (f *Fallback) Pending() int { return f.registry.pendingCount() }

// Request performs the callback-convention GET and unwraps the payload.
func (f *Fallback) Request(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	name := f.registry.acquire()
	defer f.registry.release(name)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	merged := url.Values{}
	for k, vs := range params {
		merged[k] = vs
	}
	merged.Set("callback", name)

	u, err := buildURL(f.base, path, merged, f.now())
	if err != nil {
		return nil, &domain.TransportError{Kind: domain.TransportProtocol, Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.TransportError{Kind: domain.TransportProtocol, Path: path, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyRequestError(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		io.Copy(io.Discard, resp.Body)
		return nil, &domain.TransportError{
			Kind:   domain.TransportHTTPStatus,
			Status: resp.StatusCode,
			Path:   path,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyRequestError(path, err)
	}

	payload, err := unwrapCallback(name, body)
	if err != nil {
		return nil, &domain.TransportError{Kind: domain.TransportProtocol, Path: path, Err: err}
	}
	return payload, nil
}

// unwrapCallback strips the `<name>(payload);` wrapper and validates the
// payload as JSON.
func unwrapCallback(name string, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	prefix := []byte(name + "(")
	if !bytes.HasPrefix(trimmed, prefix) {
		return nil, fmt.Errorf("callback %s was not invoked", name)
	}
	trimmed = bytes.TrimPrefix(trimmed, prefix)
	trimmed = bytes.TrimSpace(bytes.TrimSuffix(bytes.TrimSpace(trimmed), []byte(";")))
	if !bytes.HasSuffix(trimmed, []byte(")")) {
		return nil, fmt.Errorf("unterminated callback invocation")
	}
	payload := bytes.TrimSpace(trimmed[:len(trimmed)-1])
	if !json.Valid(payload) {
		return nil, fmt.Errorf("callback payload is not valid JSON")
	}
	return json.RawMessage(payload), nil
}

// callbackRegistry tracks in-flight callback names. The registry is the
// process analogue of the global callback namespace: leaking an entry here
// is the defect the cleanup contract exists to prevent.
type callbackRegistry struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func newCallbackRegistry() *callbackRegistry {
	return &callbackRegistry{pending: map[string]struct{}{}}
}

// acquire registers and returns a unique callback name.
func (r *callbackRegistry) acquire() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		var buf [6]byte
		rand.Read(buf[:])
		name := "fg_cb_" + hex.EncodeToString(buf[:])
		if _, exists := r.pending[name]; exists {
			continue
		}
		r.pending[name] = struct{}{}
		return name
	}
}

// release removes a registered name.
func (r *callbackRegistry) release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, name)
}

func (r *callbackRegistry) pendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
