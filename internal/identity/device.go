// Package identity manages the stable per-device identifier.
package identity

import (
	"github.com/google/uuid"

	"github.com/feedgate-labs/feedgate/internal/store"
	"github.com/feedgate-labs/feedgate/pkg/log"
)

// GetOrCreate returns the persisted device id, generating and persisting a
// UUID-v4 on first use. If storage is unavailable the generated id is
// returned anyway and lives only for this process: identity is best-effort,
// not guaranteed-durable.
func GetOrCreate(session *store.Session, logger log.Logger) string {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if id := session.DeviceID(); id != "" {
		return id
	}
	id := uuid.NewString()
	if !session.SetDeviceID(id) {
		logger.Warn("device id not persisted, using transient identity",
			log.String("device_id", id))
	}
	return id
}
