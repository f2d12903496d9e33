package app

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/feedgate-labs/feedgate/internal/domain"
	"github.com/feedgate-labs/feedgate/internal/identity"
	"github.com/feedgate-labs/feedgate/internal/store"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// CodeRedeemer exchanges an access code and device id for a token.
type CodeRedeemer interface {
	Redeem(ctx context.Context, code, deviceID string) (domain.RedeemResponse, error)
}

// Redeemer runs the redemption flow: validate the code locally, call the
// backend once, and persist the token on success. Each attempt is
// user-initiated and single-shot; concurrent attempts are rejected rather
// than queued, the library analogue of disabling the submit control.
type Redeemer struct {
	api      CodeRedeemer
	session  *store.Session
	logger   log.Logger
	inFlight atomic.Bool
}

// NewRedeemer creates a redemption flow.
func NewRedeemer(api CodeRedeemer, session *store.Session, logger log.Logger) *Redeemer {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Redeemer{api: api, session: session, logger: logger}
}

// Redeem exchanges code for an access token and persists it.
//
// Failure modes:
//   - domain.ErrEmptyCode: code empty after trimming; no backend call made.
//   - domain.ErrRedeemInFlight: a previous attempt has not finished.
//   - *domain.RedemptionError: backend rejected the code; the message is
//     the backend's, verbatim.
//   - *domain.TransportError: connectivity failure; callers surface a
//     generic network-error message.
func (r *Redeemer) Redeem(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrEmptyCode
	}

	if !r.inFlight.CompareAndSwap(false, true) {
		return domain.ErrRedeemInFlight
	}
	defer r.inFlight.Store(false)

	deviceID := identity.GetOrCreate(r.session, r.logger)

	resp, err := r.api.Redeem(ctx, code, deviceID)
	if err != nil {
		r.logger.Warn("redeem request failed", log.Err(err))
		return err
	}
	if !resp.OK || resp.Token == "" {
		r.logger.Info("redeem rejected by backend")
		return &domain.RedemptionError{Message: resp.Error}
	}

	r.session.SetToken(resp.Token)
	r.logger.Info("code redeemed, session unlocked")
	return nil
}
