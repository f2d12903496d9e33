// Package api provides the typed client for the feed backend on top of the
// transport layer.
package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/ports"
)

// Logical paths understood by the backend.
const (
	pathRedeem  = "redeem"
	pathFeed    = "feed"
	pathVersion = "version"
)

// Client exposes the three backend operations: code redemption, feed
// retrieval, and version reporting.
type Client struct {
	transport ports.Transport
}

// NewClient creates a backend client over the given transport.
func NewClient(t ports.Transport) *Client {
	return &Client{transport: t}
}

// Redeem exchanges an access code and device id for a token. A well-formed
// failure response ({ok:false, error}) is returned as a RedeemResponse, not
// an error; errors are transport-level only.
func (c *Client) Redeem(ctx context.Context, code, deviceID string) (domain.RedeemResponse, error) {
	raw, err := c.transport.Request(ctx, pathRedeem, url.Values{
		"code":     {code},
		"deviceId": {deviceID},
	})
	if err != nil {
		return domain.RedeemResponse{}, err
	}
	var resp domain.RedeemResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.RedeemResponse{}, protocolErr(pathRedeem, err)
	}
	return resp, nil
}

// Feed fetches one channel's records. The returned slice is never nil.
func (c *Client) Feed(ctx context.Context, channel domain.Channel, token string) ([]domain.ContentRecord, error) {
	raw, err := c.transport.Request(ctx, pathFeed, url.Values{
		"type":  {string(channel)},
		"token": {token},
	})
	if err != nil {
		return nil, err
	}
	var resp domain.FeedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, protocolErr(pathFeed, err)
	}
	if resp.Items == nil {
		resp.Items = []domain.ContentRecord{}
	}
	return resp.Items, nil
}

// Version fetches the current per-channel version snapshot.
func (c *Client) Version(ctx context.Context) (domain.VersionSnapshot, error) {
	raw, err := c.transport.Request(ctx, pathVersion, nil)
	if err != nil {
		return domain.VersionSnapshot{}, err
	}
	var snap domain.VersionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.VersionSnapshot{}, protocolErr(pathVersion, err)
	}
	return snap, nil
}

func protocolErr(path string, err error) *domain.TransportError {
	return &domain.TransportError{Kind: domain.TransportProtocol, Path: path, Err: err}
}
