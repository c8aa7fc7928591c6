package services

import (
	"context"
	"sync"

	"restaurant-booking-platform/internal/models"
)

// Stage identifies where a composing session sits in the slots -> tables
// resolution pipeline
type Stage string

const (
	StageIdle        Stage = "idle"
	StageSlotsReady  Stage = "slots_ready"
	StageSlotsEmpty  Stage = "slots_empty"
	StageSlotsError  Stage = "slots_error"
	StageTablesReady Stage = "tables_ready"
	StageTablesEmpty Stage = "tables_empty"
	StageTablesError Stage = "tables_error"
)

// ResolverState is a point-in-time copy of a composing session, safe to
// hand to a renderer
type ResolverState struct {
	Query           models.AvailabilityQuery
	Stage           Stage
	Slots           *models.SlotSet
	SlotsErr        error
	SelectedTime    string
	Tables          []*models.TableCandidate
	TablesErr       error
	SelectedTableID int
	// ContactStaff is set when the party is too large for any capacity
	// tier; the UI renders a "call the restaurant" affordance instead of
	// the generic empty state.
	ContactStaff bool
}

// Resolver narrows an unconstrained (date, party size) request down to a
// bookable (table, time) pair for one composing session. Changing the date
// or guest count discards the current time and table selections; a response
// belonging to a superseded query is ignored rather than allowed to
// overwrite a newer one.
type Resolver struct {
	api AvailabilityAPI

	mu    sync.Mutex
	query models.AvailabilityQuery

	slots    *models.SlotSet
	slotsErr error
	slotsSeq uint64

	selectedTime string
	tables       []*models.TableCandidate
	tablesLoaded bool
	tablesErr    error
	tablesSeq    uint64

	selectedTableID int
}

// NewResolver creates a resolver for one composing session
func NewResolver(api AvailabilityAPI) *Resolver {
	return &Resolver{api: api}
}

// SetQuery updates the (date, guests) parameters and fetches the matching
// time slots. Identical repeat queries are answered from the last successful
// result without another network call.
func (r *Resolver) SetQuery(ctx context.Context, date string, numGuests int) ResolverState {
	r.mu.Lock()

	q := models.AvailabilityQuery{Date: date, NumGuests: numGuests}
	if q == r.query && r.slots != nil && r.slotsErr == nil {
		state := r.stateLocked()
		r.mu.Unlock()
		return state
	}

	// Stale time/table selections never survive a parameter change
	r.query = q
	r.selectedTime = ""
	r.selectedTableID = 0
	r.tables = nil
	r.tablesLoaded = false
	r.tablesErr = nil

	if !q.IsComplete() {
		r.slots = nil
		r.slotsErr = nil
		state := r.stateLocked()
		r.mu.Unlock()
		return state
	}

	r.slotsSeq++
	seq := r.slotsSeq
	r.mu.Unlock()

	slots, err := r.api.GetAvailability(ctx, date, numGuests)

	r.mu.Lock()
	defer r.mu.Unlock()

	// A newer query superseded this one while it was in flight; its answer
	// must not overwrite the newer result.
	if seq != r.slotsSeq {
		return r.stateLocked()
	}

	if err != nil {
		r.slots = nil
		r.slotsErr = err
	} else {
		r.slots = slots
		r.slotsErr = nil
	}
	return r.stateLocked()
}

// SelectTime picks a time from the current slot list and fetches the
// concrete open tables for it. Picking a time that is not on the list is
// rejected without touching the session.
func (r *Resolver) SelectTime(ctx context.Context, timeSlot string) (ResolverState, error) {
	r.mu.Lock()

	if r.slots == nil || !r.slots.HasSlot(timeSlot) {
		state := r.stateLocked()
		r.mu.Unlock()
		return state, models.ErrInvalidInput
	}

	query := r.query
	r.selectedTime = timeSlot
	r.selectedTableID = 0
	r.tables = nil
	r.tablesLoaded = false
	r.tablesErr = nil

	r.tablesSeq++
	seq := r.tablesSeq
	r.mu.Unlock()

	tables, err := r.api.GetTables(ctx, query.Date, timeSlot, query.NumGuests)

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.tablesSeq || r.selectedTime != timeSlot {
		return r.stateLocked(), nil
	}

	if err != nil {
		r.tables = nil
		r.tablesLoaded = false
		r.tablesErr = err
		return r.stateLocked(), nil
	}

	// Bucketing to the capacity tier happens here: oversized parties end
	// up with an empty list no matter what the server sent back.
	r.tables = models.FilterByCapacityTier(tables, query.NumGuests)
	r.tablesLoaded = true
	r.tablesErr = nil
	return r.stateLocked(), nil
}

// SelectTable picks one of the current table candidates
func (r *Resolver) SelectTable(tableID int) (ResolverState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tables {
		if t.ID == tableID {
			r.selectedTableID = tableID
			return r.stateLocked(), nil
		}
	}
	return r.stateLocked(), models.ErrInvalidInput
}

// State returns a copy of the current session state
func (r *Resolver) State() ResolverState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

// SelectedTable returns the currently selected table candidate, or nil
func (r *Resolver) SelectedTable() *models.TableCandidate {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tables {
		if t.ID == r.selectedTableID {
			return t
		}
	}
	return nil
}

// Reset returns the session to the idle state, e.g. after a successful
// booking submission
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.query = models.AvailabilityQuery{}
	r.slots = nil
	r.slotsErr = nil
	r.selectedTime = ""
	r.tables = nil
	r.tablesLoaded = false
	r.tablesErr = nil
	r.selectedTableID = 0
}

func (r *Resolver) stateLocked() ResolverState {
	state := ResolverState{
		Query:           r.query,
		Slots:           r.slots,
		SlotsErr:        r.slotsErr,
		SelectedTime:    r.selectedTime,
		Tables:          r.tables,
		TablesErr:       r.tablesErr,
		SelectedTableID: r.selectedTableID,
		ContactStaff:    r.query.NumGuests > models.MaxTierCapacity,
	}

	switch {
	case !r.query.IsComplete():
		state.Stage = StageIdle
	case r.slotsErr != nil:
		state.Stage = StageSlotsError
	case r.slots == nil:
		state.Stage = StageIdle
	case len(r.slots.TimeSlots) == 0:
		state.Stage = StageSlotsEmpty
	case r.selectedTime == "":
		state.Stage = StageSlotsReady
	case r.tablesErr != nil:
		state.Stage = StageTablesError
	case !r.tablesLoaded:
		state.Stage = StageSlotsReady
	case len(r.tables) == 0:
		state.Stage = StageTablesEmpty
	default:
		state.Stage = StageTablesReady
	}
	return state
}

// ResolverRegistry keeps one resolver per composing session
type ResolverRegistry struct {
	api AvailabilityAPI

	mu        sync.Mutex
	resolvers map[string]*Resolver
}

// NewResolverRegistry creates an empty registry backed by the given API
func NewResolverRegistry(api AvailabilityAPI) *ResolverRegistry {
	return &ResolverRegistry{
		api:       api,
		resolvers: make(map[string]*Resolver),
	}
}

// For returns the resolver for a session, creating it on first use
func (rr *ResolverRegistry) For(sessionID string) *Resolver {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if r, ok := rr.resolvers[sessionID]; ok {
		return r
	}
	r := NewResolver(rr.api)
	rr.resolvers[sessionID] = r
	return r
}

// Drop removes a session's resolver, e.g. after its booking completed
func (rr *ResolverRegistry) Drop(sessionID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.resolvers, sessionID)
}
