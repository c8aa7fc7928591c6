package cart

import (
	jsoniter "github.com/json-iterator/go"

	"restaurant-booking-platform/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeSnapshot serializes a cart snapshot for storage
func EncodeSnapshot(snap models.CartSnapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeSnapshot deserializes a stored cart snapshot. Payloads of the wrong
// shape are reported as not decodable; the caller falls back to an empty
// cart rather than surfacing an error.
func DecodeSnapshot(data string) (models.CartSnapshot, bool) {
	var snap models.CartSnapshot
	if err := json.UnmarshalFromString(data, &snap); err != nil {
		return models.CartSnapshot{}, false
	}

	for _, line := range snap.Items {
		if line.MenuItemID <= 0 || line.Quantity < 1 || line.UnitPrice < 0 {
			return models.CartSnapshot{}, false
		}
	}
	return snap, true
}
