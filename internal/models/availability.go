package models

// AvailabilityQuery identifies one (date, party size) availability request
type AvailabilityQuery struct {
	Date      string `json:"date"` // YYYY-MM-DD
	NumGuests int    `json:"num_guests"`
}

// IsZero returns true if no date or guest count has been entered yet
func (q AvailabilityQuery) IsZero() bool {
	return q.Date == "" && q.NumGuests == 0
}

// IsComplete returns true if the query can be sent to the availability API
func (q AvailabilityQuery) IsComplete() bool {
	return q.Date != "" && q.NumGuests >= 1
}

// SlotSet is the availability API's answer for a (date, guests) query:
// bookable times of day plus the table types (and surcharges) on offer.
// Ephemeral, recomputed on every query change, never persisted.
type SlotSet struct {
	TimeSlots  []string    `json:"time_slots"` // e.g. "18:00"
	TableTypes []TableType `json:"table_types"`
}

// HasSlot returns true if t is one of the bookable times
func (s *SlotSet) HasSlot(t string) bool {
	for _, slot := range s.TimeSlots {
		if slot == t {
			return true
		}
	}
	return false
}
