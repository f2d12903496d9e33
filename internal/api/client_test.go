package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/feedgate-labs/feedgate/internal/domain"
)

// stubTransport returns canned payloads keyed by path.
type stubTransport struct {
	payloads map[string]string
	err      error
	calls    []string
	params   []url.Values
}

func (s *stubTransport) Request(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	s.calls = append(s.calls, path)
	s.params = append(s.params, params)
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.payloads[path]), nil
}

func TestRedeem(t *testing.T) {
	st := &stubTransport{payloads: map[string]string{
		"redeem": `{"ok":true,"token":"tok-xyz"}`,
	}}
	c := NewClient(st)

	resp, err := c.Redeem(context.Background(), "ABC123", "dev-1")
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	if !resp.OK || resp.Token != "tok-xyz" {
		t.Errorf("Redeem = %+v, want ok with tok-xyz", resp)
	}
	if got := st.params[0].Get("code"); got != "ABC123" {
		t.Errorf("code param = %q, want ABC123", got)
	}
	if got := st.params[0].Get("deviceId"); got != "dev-1" {
		t.Errorf("deviceId param = %q, want dev-1", got)
	}
}

func TestRedeemBackendFailureIsNotAnError(t *testing.T) {
	st := &stubTransport{payloads: map[string]string{
		"redeem": `{"ok":false,"error":"Code already used on another device."}`,
	}}
	c := NewClient(st)

	resp, err := c.Redeem(context.Background(), "ABC123", "dev-1")
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	if resp.OK {
		t.Error("resp.OK = true, want false")
	}
	if resp.Error != "Code already used on another device." {
		t.Errorf("backend message altered: %q", resp.Error)
	}
}

func TestFeedNeverReturnsNilItems(t *testing.T) {
	st := &stubTransport{payloads: map[string]string{
		"feed": `{}`,
	}}
	c := NewClient(st)

	items, err := c.Feed(context.Background(), domain.ChannelAnnouncements, "tok")
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if items == nil {
		t.Fatal("Feed returned nil items")
	}
	if len(items) != 0 {
		t.Errorf("items = %v, want empty", items)
	}
}

func TestFeedCarriesTokenAndType(t *testing.T) {
	st := &stubTransport{payloads: map[string]string{
		"feed": `{"items":[{"title":"Gold breaks out","pinned":"TRUE"}]}`,
	}}
	c := NewClient(st)

	items, err := c.Feed(context.Background(), domain.ChannelNewsOrders, "tok-xyz")
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Gold breaks out" {
		t.Fatalf("items = %+v", items)
	}
	if !bool(items[0].Pinned) {
		t.Error("spreadsheet-style pinned flag not decoded")
	}
	if got := st.params[0].Get("token"); got != "tok-xyz" {
		t.Errorf("token param = %q, want tok-xyz", got)
	}
	if got := st.params[0].Get("type"); got != "news_orders" {
		t.Errorf("type param = %q, want news_orders", got)
	}
}

func TestVersion(t *testing.T) {
	st := &stubTransport{payloads: map[string]string{
		"version": `{"news_orders":5,"signals":2,"announcements":1}`,
	}}
	c := NewClient(st)

	snap, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	want := domain.VersionSnapshot{NewsOrders: 5, Signals: 2, Announcements: 1}
	if snap != want {
		t.Errorf("Version = %+v, want %+v", snap, want)
	}
}

func TestTransportErrorPassthrough(t *testing.T) {
	wantErr := &domain.TransportError{Kind: domain.TransportNetwork, Path: "version"}
	st := &stubTransport{err: wantErr}
	c := NewClient(st)

	_, err := c.Version(context.Background())
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Kind != domain.TransportNetwork {
		t.Errorf("err = %v, want network transport error", err)
	}
}

func TestMalformedPayloadIsProtocolError(t *testing.T) {
	st := &stubTransport{payloads: map[string]string{
		"version": `[1,2,3]`,
	}}
	c := NewClient(st)

	_, err := c.Version(context.Background())
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Kind != domain.TransportProtocol {
		t.Errorf("err = %v, want protocol transport error", err)
	}
}
