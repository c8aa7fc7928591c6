package handlers

import (
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"
	jsoniter "github.com/json-iterator/go"

	"restaurant-booking-platform/internal/cart"
	"restaurant-booking-platform/internal/middleware"
	"restaurant-booking-platform/internal/models"
	"restaurant-booking-platform/internal/services"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// lastBookingKey is the session slot the confirmation page reads from
const lastBookingKey = "last_booking"

// BookingHandler drives the booking composition flow: availability lookup,
// time and table selection, the advisory price summary and the final
// submission.
type BookingHandler struct {
	resolvers *services.ResolverRegistry
	submitter *services.BookingSubmitter
	snapshots cart.SnapshotStore
	store     sessions.Store
}

func NewBookingHandler(resolvers *services.ResolverRegistry, submitter *services.BookingSubmitter, snapshots cart.SnapshotStore, store sessions.Store) *BookingHandler {
	return &BookingHandler{
		resolvers: resolvers,
		submitter: submitter,
		snapshots: snapshots,
		store:     store,
	}
}

// BookingPage renders the booking composition page
func (h *BookingHandler) BookingPage(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	sid := middleware.GetSessionID(session)
	state := h.resolvers.For(sid).State()
	snapshot := openCart(r, session, h.snapshots).Snapshot()
	user := middleware.GetUserFromContext(r.Context())

	w.Header().Set("Content-Type", "text/html")

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Book a Table</title>
	<script src="https://unpkg.com/htmx.org@1.9.10"></script>
	<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
	<div class="max-w-3xl mx-auto px-4 py-8">
		<h1 class="text-2xl font-bold text-gray-900 mb-6">Book a Table</h1>`)

	if user == nil {
		b.WriteString(`
		<div class="bg-yellow-50 border border-yellow-200 text-yellow-800 p-3 rounded-md mb-6">
			<p class="text-sm">You are browsing as a guest. <a href="/login" class="underline">Sign in</a> before submitting your booking.</p>
		</div>`)
	}

	b.WriteString(fmt.Sprintf(`
		<form class="bg-white rounded-lg shadow p-6 mb-6">
			<div class="grid grid-cols-2 gap-4">
				<div>
					<label class="block text-sm font-medium text-gray-700 mb-1">Date</label>
					<input type="date" name="date" value="%s" class="w-full border rounded px-3 py-2"
						hx-get="/book/slots" hx-trigger="change delay:300ms" hx-include="closest form" hx-target="#slot-picker">
				</div>
				<div>
					<label class="block text-sm font-medium text-gray-700 mb-1">Guests</label>
					<input type="number" name="guests" value="%s" min="1" class="w-full border rounded px-3 py-2"
						hx-get="/book/slots" hx-trigger="change delay:300ms" hx-include="closest form" hx-target="#slot-picker">
				</div>
			</div>
		</form>
		<div id="slot-picker" class="mb-6">%s</div>
		<div id="table-picker" class="mb-6">%s</div>
		<div id="booking-summary" class="mb-6">%s</div>
		<div id="booking-form">%s</div>
	</div>
</body>
</html>`,
		html.EscapeString(state.Query.Date),
		guestsValue(state.Query.NumGuests),
		renderSlotsFragment(state),
		renderTablesFragment(state),
		renderSummaryFragment(state, snapshot.TotalAmount),
		renderSubmitForm(snapshot)))

	fmt.Fprint(w, b.String())
}

// Slots handles the availability query and returns the time slot fragment
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	date := r.FormValue("date")
	guests, _ := strconv.Atoi(r.FormValue("guests"))

	sid := middleware.GetSessionID(session)
	state := h.resolvers.For(sid).SetQuery(r.Context(), date, guests)

	// Changing the parameters invalidated any previous time/table choice,
	// so those panels are cleared alongside the slot list
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, renderSlotsFragment(state))
	fmt.Fprint(w, oobSwap("table-picker", renderTablesFragment(state)))
	fmt.Fprint(w, oobSwap("booking-summary", renderSummaryFragment(state, h.cartTotal(r, session))))
}

// SelectTime picks a time slot and returns the table fragment
func (h *BookingHandler) SelectTime(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	sid := middleware.GetSessionID(session)
	state, err := h.resolvers.For(sid).SelectTime(r.Context(), r.FormValue("time"))
	if err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "That time is no longer offered. Pick another one.")
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, renderTablesFragment(state))
	fmt.Fprint(w, oobSwap("booking-summary", renderSummaryFragment(state, h.cartTotal(r, session))))
}

// SelectTable picks a table candidate and returns the price summary fragment
func (h *BookingHandler) SelectTable(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	tableID, err := strconv.Atoi(r.FormValue("table_id"))
	if err != nil {
		errorFragment(w, http.StatusBadRequest, "Invalid table.")
		return
	}

	sid := middleware.GetSessionID(session)
	state, err := h.resolvers.For(sid).SelectTable(tableID)
	if err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "That table is no longer available. Pick another one.")
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, renderTablesFragment(state))
	fmt.Fprint(w, oobSwap("booking-summary", renderSummaryFragment(state, h.cartTotal(r, session))))
}

// Submit sends the composed booking to the reservation backend
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	sid := middleware.GetSessionID(session)
	resolver := h.resolvers.For(sid)
	state := resolver.State()
	c := openCart(r, session, h.snapshots)
	user := middleware.GetUserFromContext(r.Context())

	draft := &models.BookingDraft{
		Authenticated:   user != nil,
		Query:           state.Query,
		Time:            state.SelectedTime,
		Table:           resolver.SelectedTable(),
		Cart:            c.Snapshot(),
		PaymentMethod:   r.FormValue("payment_method"),
		PromotionCode:   strings.TrimSpace(r.FormValue("promotion_code")),
		SpecialRequests: strings.TrimSpace(r.FormValue("special_requests")),
	}

	result, err := h.submitter.Submit(r.Context(), sid, draft, c)
	if err != nil {
		h.renderSubmitError(w, err)
		return
	}

	encoded, err := json.MarshalToString(result)
	if err != nil {
		log.Printf("Error encoding booking result: %v", err)
		errorFragment(w, http.StatusInternalServerError, "Your booking was created but the confirmation could not be displayed.")
		return
	}
	session.Values[lastBookingKey] = encoded
	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving session: %v", err)
	}

	// The composing session is finished; the next booking starts clean
	resolver.Reset()
	h.resolvers.Drop(sid)

	handleRedirect(w, r, "/bookings/confirmation", http.StatusSeeOther)
}

// Confirmation renders the server-confirmed booking. Everything shown here
// is the backend's answer; nothing is recomputed client-side.
func (h *BookingHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	encoded, ok := session.Values[lastBookingKey].(string)
	if !ok || encoded == "" {
		http.Redirect(w, r, "/book", http.StatusSeeOther)
		return
	}

	var result services.BookingResult
	if err := json.UnmarshalFromString(encoded, &result); err != nil || result.Booking == nil {
		http.Redirect(w, r, "/book", http.StatusSeeOther)
		return
	}
	booking := result.Booking

	w.Header().Set("Content-Type", "text/html")

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Booking Confirmed</title>
	<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
	<div class="max-w-2xl mx-auto px-4 py-8">
		<div class="bg-white rounded-lg shadow p-6">
			<h1 class="text-2xl font-bold text-green-700 mb-1">Booking confirmed</h1>
			<p class="text-gray-500 mb-6">Reference <strong>%s</strong> · %s</p>
			<dl class="grid grid-cols-2 gap-y-2 text-sm mb-6">
				<dt class="text-gray-500">Date</dt><dd>%s at %s</dd>
				<dt class="text-gray-500">Guests</dt><dd>%d</dd>
				<dt class="text-gray-500">Table</dt><dd>%s</dd>
			</dl>
			<dl class="border-t pt-4 grid grid-cols-2 gap-y-2 text-sm">
				<dt class="text-gray-500">Dishes</dt><dd class="text-right">%s</dd>
				<dt class="text-gray-500">Table surcharge</dt><dd class="text-right">%s</dd>`,
		html.EscapeString(booking.BookingReference),
		html.EscapeString(booking.GetStatusDisplayName()),
		html.EscapeString(booking.Date), html.EscapeString(booking.Time),
		booking.NumGuests,
		html.EscapeString(booking.TableNumber),
		formatAmount(booking.ItemsAmount),
		formatAmount(booking.TableSurcharge)))

	if booking.DiscountAmount > 0 {
		b.WriteString(fmt.Sprintf(`
				<dt class="text-gray-500">Discount (%s)</dt><dd class="text-right text-green-700">-%s</dd>`,
			html.EscapeString(booking.PromotionCode), formatAmount(booking.DiscountAmount)))
	}

	b.WriteString(fmt.Sprintf(`
				<dt class="font-bold text-gray-900">Total</dt><dd class="text-right font-bold">%s</dd>
			</dl>`, formatAmount(booking.TotalAmount)))

	if result.Payment != nil {
		b.WriteString(fmt.Sprintf(`
			<div class="border-t mt-4 pt-4 text-sm">
				<p class="text-gray-500">Payment %s · %s · %s</p>`,
			html.EscapeString(result.Payment.PaymentReference),
			html.EscapeString(result.Payment.Method),
			formatAmount(result.Payment.Amount)))
		if result.Payment.QRCodeURL != "" {
			b.WriteString(fmt.Sprintf(`
				<img src="%s" alt="Payment QR code" class="w-40 h-40 mt-3">`, html.EscapeString(result.Payment.QRCodeURL)))
		}
		b.WriteString(`
			</div>`)
	}

	b.WriteString(`
			<a href="/menu" class="inline-block mt-6 text-orange-600 hover:text-orange-700">Back to the menu</a>
		</div>
	</div>
</body>
</html>`)
	fmt.Fprint(w, b.String())
}

// renderSubmitError maps submission failures to user-facing fragments. The
// precondition errors carry their own message; backend validation errors list
// the offending fields; anything else is a retryable network problem.
func (h *BookingHandler) renderSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotAuthenticated),
		errors.Is(err, models.ErrNoGuests),
		errors.Is(err, models.ErrNoTimeSelected),
		errors.Is(err, models.ErrNoTableSelected):
		errorFragment(w, http.StatusUnprocessableEntity, capitalize(err.Error())+".")
		return
	case errors.Is(err, models.ErrSubmitInFlight):
		errorFragment(w, http.StatusConflict, "Your booking is already being submitted. Please wait a moment.")
		return
	}

	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsValidation() && len(apiErr.Fields) > 0 {
			keys := make([]string, 0, len(apiErr.Fields))
			for k := range apiErr.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			var b strings.Builder
			b.WriteString(`<ul class="list-disc ml-5 mt-1">`)
			for _, k := range keys {
				b.WriteString(fmt.Sprintf(`<li>%s: %s</li>`, html.EscapeString(k), html.EscapeString(apiErr.Fields[k])))
			}
			b.WriteString(`</ul>`)

			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprintf(w, `<div class="bg-red-50 border border-red-200 text-red-800 p-3 rounded-md">
				<p class="text-sm">The restaurant could not accept your booking:</p>%s
			</div>`, b.String())
			return
		}
		errorFragment(w, http.StatusBadGateway, html.EscapeString(capitalize(apiErr.Error()))+".")
		return
	}

	log.Printf("Error submitting booking: %v", err)
	errorFragment(w, http.StatusBadGateway, "Network error. Your booking was not submitted; please try again.")
}

// cartTotal reads the current cart total for the advisory price summary
func (h *BookingHandler) cartTotal(r *http.Request, session *sessions.Session) int {
	return openCart(r, session, h.snapshots).TotalAmount()
}

func guestsValue(numGuests int) string {
	if numGuests < 1 {
		return ""
	}
	return strconv.Itoa(numGuests)
}

// oobSwap wraps a fragment so HTMX replaces the given element out of band
func oobSwap(id, inner string) string {
	return fmt.Sprintf(`<div id="%s" hx-swap-oob="true" class="mb-6">%s</div>`, id, inner)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func renderSlotsFragment(state services.ResolverState) string {
	switch state.Stage {
	case services.StageIdle:
		return `<div class="bg-white rounded-lg shadow p-6 text-gray-500">
			Pick a date and the number of guests to see available times.
		</div>`
	case services.StageSlotsError:
		return fmt.Sprintf(`<div class="bg-red-50 border border-red-200 text-red-800 p-4 rounded-lg">
			<p class="text-sm">We could not load available times. Please try again.</p>
			<button hx-get="/book/slots?date=%s&guests=%d" hx-target="#slot-picker"
				class="mt-2 text-sm underline">Retry</button>
		</div>`, html.EscapeString(state.Query.Date), state.Query.NumGuests)
	case services.StageSlotsEmpty:
		return `<div class="bg-white rounded-lg shadow p-6 text-gray-500">
			No times are available on that date for your party. Try another date.
		</div>`
	}

	var b strings.Builder
	b.WriteString(`<div class="bg-white rounded-lg shadow p-6">
		<h2 class="text-sm font-medium text-gray-700 mb-3">Available times</h2>
		<div class="flex flex-wrap gap-2">`)
	for _, slot := range state.Slots.TimeSlots {
		selected := ""
		if slot == state.SelectedTime {
			selected = " bg-orange-600 text-white"
		}
		b.WriteString(fmt.Sprintf(`
			<button hx-post="/book/time" hx-vals='{"time": "%s"}' hx-target="#table-picker"
				class="px-4 py-2 border rounded-lg hover:border-orange-600%s">%s</button>`,
			html.EscapeString(slot), selected, html.EscapeString(slot)))
	}
	b.WriteString(`
		</div>
	</div>`)
	return b.String()
}

func renderTablesFragment(state services.ResolverState) string {
	switch state.Stage {
	case services.StageIdle, services.StageSlotsError, services.StageSlotsEmpty:
		return ""
	case services.StageSlotsReady:
		if state.SelectedTime == "" {
			return `<div class="bg-white rounded-lg shadow p-6 text-gray-500">
				Pick a time to see open tables.
			</div>`
		}
		return ""
	case services.StageTablesError:
		return fmt.Sprintf(`<div class="bg-red-50 border border-red-200 text-red-800 p-4 rounded-lg">
			<p class="text-sm">We could not load open tables. Please try again.</p>
			<button hx-post="/book/time" hx-vals='{"time": "%s"}' hx-target="#table-picker"
				class="mt-2 text-sm underline">Retry</button>
		</div>`, html.EscapeString(state.SelectedTime))
	case services.StageTablesEmpty:
		if state.ContactStaff {
			return `<div class="bg-yellow-50 border border-yellow-200 text-yellow-800 p-4 rounded-lg">
				<p class="text-sm">Parties of more than 8 cannot be booked online. Please call the restaurant and we will arrange seating for your group.</p>
			</div>`
		}
		return `<div class="bg-white rounded-lg shadow p-6 text-gray-500">
			No tables are open at that time. Pick another time.
		</div>`
	}

	var b strings.Builder
	b.WriteString(`<div class="bg-white rounded-lg shadow p-6">
		<h2 class="text-sm font-medium text-gray-700 mb-3">Open tables</h2>
		<div class="space-y-2">`)
	for _, t := range state.Tables {
		selected := ""
		if t.ID == state.SelectedTableID {
			selected = " border-orange-600 bg-orange-50"
		}
		surcharge := "No surcharge"
		if t.TableType.Surcharge > 0 {
			surcharge = "+" + formatAmount(t.TableType.Surcharge)
		}
		b.WriteString(fmt.Sprintf(`
			<button hx-post="/book/table" hx-vals='{"table_id": "%d"}' hx-target="#table-picker"
				class="w-full flex justify-between items-center border rounded-lg px-4 py-3 hover:border-orange-600%s">
				<span>Table %s · seats %d · %s</span>
				<span class="text-sm text-gray-500">%s · %s</span>
			</button>`,
			t.ID, selected,
			html.EscapeString(t.TableNumber), t.Capacity, html.EscapeString(t.TableType.Name),
			html.EscapeString(t.LocationDescription), surcharge))
	}
	b.WriteString(`
		</div>
	</div>`)
	return b.String()
}

// renderSummaryFragment shows the advisory estimate: cart total plus table
// surcharge. Promotions are not priced here; the restaurant applies them and
// its confirmed total is the one that counts.
func renderSummaryFragment(state services.ResolverState, cartTotal int) string {
	if state.Stage != services.StageTablesReady || state.SelectedTableID == 0 {
		return ""
	}

	var table *models.TableCandidate
	for _, t := range state.Tables {
		if t.ID == state.SelectedTableID {
			table = t
			break
		}
	}

	breakdown := services.ComposePrice(cartTotal, table)
	return fmt.Sprintf(`<div class="bg-white rounded-lg shadow p-6">
		<h2 class="text-sm font-medium text-gray-700 mb-3">Estimated total</h2>
		<dl class="grid grid-cols-2 gap-y-1 text-sm">
			<dt class="text-gray-500">Dishes</dt><dd class="text-right">%s</dd>
			<dt class="text-gray-500">Table surcharge</dt><dd class="text-right">%s</dd>
			<dt class="font-bold text-gray-900">Estimate</dt><dd class="text-right font-bold">%s</dd>
		</dl>
		<p class="text-xs text-gray-400 mt-2">Promotions are applied when the restaurant confirms your booking.</p>
	</div>`,
		formatAmount(breakdown.CartTotal),
		formatAmount(breakdown.TableSurcharge),
		formatAmount(breakdown.Subtotal))
}

func renderSubmitForm(snapshot models.CartSnapshot) string {
	var b strings.Builder
	b.WriteString(`<form hx-post="/book/submit" hx-target="#submit-feedback" class="bg-white rounded-lg shadow p-6">
		<h2 class="text-sm font-medium text-gray-700 mb-3">Finish your booking</h2>`)

	if snapshot.IsEmpty() {
		b.WriteString(`
		<p class="text-sm text-gray-500 mb-3">Your cart is empty. You can book a table without pre-ordering, or <a href="/menu" class="text-orange-600 underline">add dishes first</a>.</p>`)
	} else {
		b.WriteString(fmt.Sprintf(`
		<p class="text-sm text-gray-500 mb-3">%d pre-ordered dish(es), %s.</p>`,
			snapshot.TotalQuantity, formatAmount(snapshot.TotalAmount)))
	}

	b.WriteString(`
		<div class="grid grid-cols-2 gap-4 mb-4">
			<div>
				<label class="block text-sm font-medium text-gray-700 mb-1">Payment method</label>
				<select name="payment_method" class="w-full border rounded px-3 py-2">
					<option value="pay_at_restaurant">Pay at the restaurant</option>
					<option value="bank_transfer">Bank transfer</option>
					<option value="momo">MoMo</option>
				</select>
			</div>
			<div>
				<label class="block text-sm font-medium text-gray-700 mb-1">Promotion code</label>
				<input type="text" name="promotion_code" placeholder="Optional" class="w-full border rounded px-3 py-2">
			</div>
		</div>
		<div class="mb-4">
			<label class="block text-sm font-medium text-gray-700 mb-1">Special requests</label>
			<textarea name="special_requests" rows="2" placeholder="Optional" class="w-full border rounded px-3 py-2"></textarea>
		</div>
		<div id="submit-feedback" class="mb-3"></div>
		<button type="submit" class="w-full bg-orange-600 text-white py-3 rounded-lg hover:bg-orange-700">Book table</button>
	</form>`)
	return b.String()
}
