package model

import "time"

// Reservation statuses.  A reservation is a time-boxed hold on a niche
// placed before the contract is signed in person.  Records are never
// deleted; cancel and expiry are status transitions so that history is
// preserved for staff.
const (
	ReservationPending  = "Pending"  // hold placed, awaiting staff confirmation
	ReservationApproved = "Approved" // confirmed by staff
	ReservationCanceled = "Canceled" // withdrawn by the customer or staff
	ReservationExpired  = "Expired"  // hold lapsed past its confirmation date
)

// Reservation records a customer's hold on a single niche.  The
// requester identity (name and phone) is captured at submission time;
// for authenticated customers it is taken from the user record rather
// than re-entered.
//
// Fields:
//  ID               – primary key identifier.
//  Code             – opaque tracking code (UUID) returned to clients.
//  NicheID          – niche being held.
//  CustomerID       – user who placed the hold (nil for walk-in entries
//                     recorded by staff).
//  Name             – requester display name.
//  PhoneNumber      – requester mobile number; the per-phone quota is
//                     counted against this value.
//  SignAddress      – one of the fixed signing-office addresses.
//  Note             – optional free text.
//  IsCustomer       – whether the record was created through the
//                     customer portal (as opposed to the staff console).
//  Status           – lifecycle status (see constants above).
//  ConfirmationDate – end of the day the requester picked for signing;
//                     also the hold's expiry instant while Pending.
//  CreatedDate      – when the hold was placed.
//  UpdatedAt        – last update timestamp.
type Reservation struct {
	ID               uint64    // niche_reservations.id
	Code             string    // niche_reservations.code
	NicheID          uint64    // niche_reservations.niche_id
	CustomerID       *uint64   // niche_reservations.customer_id (nullable)
	Name             string    // niche_reservations.name
	PhoneNumber      string    // niche_reservations.phone_number
	SignAddress      string    // niche_reservations.sign_address
	Note             *string   // niche_reservations.note (nullable)
	IsCustomer       bool      // niche_reservations.is_customer
	Status           string    // niche_reservations.status
	ConfirmationDate time.Time // niche_reservations.confirmation_date
	CreatedDate      time.Time // niche_reservations.created_date
	UpdatedAt        time.Time // niche_reservations.updated_at
}

// ReservationEditable reports whether the record may still be changed
// or canceled by its owner.  Once staff confirm the hold, or once it
// reaches a terminal status, row actions disappear from the lifecycle
// lists.
func ReservationEditable(status string) bool {
	return status == ReservationPending
}

// BadgeColor maps a reservation status to the fixed badge color used by
// both lifecycle lists.  The mapping is a compile-time lookup, not
// server configuration.
func BadgeColor(status string) string {
	switch status {
	case ReservationApproved:
		return "positive"
	case ReservationCanceled, ReservationExpired:
		return "negative"
	default: // Pending and anything unrecognized render neutral
		return "neutral"
	}
}
