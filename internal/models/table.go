package models

// TableType represents a class of tables sharing a surcharge
type TableType struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Surcharge int    `json:"surcharge"` // in minor currency units
}

// TableCandidate represents a specific physical table available for a
// resolved date/time/guest combination
type TableCandidate struct {
	ID                  int       `json:"id"`
	TableNumber         string    `json:"table_number"`
	Capacity            int       `json:"capacity"`
	TableType           TableType `json:"table_type"`
	LocationDescription string    `json:"location_description"`
}

// capacityTiers are the table sizes the restaurant seats parties at. A party
// is bucketed into the smallest tier that fits it; parties larger than the
// biggest tier cannot be booked online and are told to call the restaurant.
var capacityTiers = []int{2, 4, 6, 8}

// MaxTierCapacity is the largest party size bookable online
const MaxTierCapacity = 8

// CapacityTierFor returns the table capacity tier for a guest count. The
// second return value is false when the party is too large for any tier.
func CapacityTierFor(numGuests int) (int, bool) {
	if numGuests < 1 {
		return 0, false
	}
	for _, tier := range capacityTiers {
		if numGuests <= tier {
			return tier, true
		}
	}
	return 0, false
}

// FilterByCapacityTier narrows table candidates down to the guest count's
// capacity tier. Guest counts above the largest tier always yield an empty
// result regardless of what the server returned.
func FilterByCapacityTier(candidates []*TableCandidate, numGuests int) []*TableCandidate {
	tier, ok := CapacityTierFor(numGuests)
	if !ok {
		return nil
	}

	filtered := make([]*TableCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Capacity == tier {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
