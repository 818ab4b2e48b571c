package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhansen/wardbook/internal/models"
)

type TrustedDeviceRepo struct {
	DB DBTX
}

const trustDevice = `-- name: TrustDevice
INSERT INTO trusted_devices (id, user_id, device_id)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, device_id) DO UPDATE SET last_seen = now()
RETURNING id, user_id, device_id, created_at, last_seen
`

func (r *TrustedDeviceRepo) Trust(ctx context.Context, userID uuid.UUID, deviceID string) (models.TrustedDevice, error) {
	rows, _ := r.DB.Query(ctx, trustDevice, uuid.New(), userID, deviceID)
	device, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.TrustedDevice, error) {
		var d models.TrustedDevice
		err := row.Scan(&d.ID, &d.UserID, &d.DeviceID, &d.CreatedAt, &d.LastSeen)
		return d, err
	})
	if err != nil {
		return device, fmt.Errorf("db error: %w", err)
	}

	return device, nil
}

const deviceTrusted = `-- name: DeviceTrusted
SELECT 1 FROM trusted_devices
WHERE user_id = $1 AND device_id = $2
`

func (r *TrustedDeviceRepo) IsTrusted(ctx context.Context, userID uuid.UUID, deviceID string) (bool, error) {
	rows, _ := r.DB.Query(ctx, deviceTrusted, userID, deviceID)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[int])

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, fmt.Errorf("db error: %w", err)
	}
}
