// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when staff approve a niche
// reservation. It carries enough location and contact context for
// downstream consumers to log or notify without querying the primary
// database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	Code          string `json:"code"`
	NicheID       uint64 `json:"niche_id"`
	NicheName     string `json:"niche_name"`
	BuildingName  string `json:"building_name"`
	FloorName     string `json:"floor_name"`
	AreaName      string `json:"area_name"`
	CustomerName  string `json:"customer_name"`
	PhoneNumber   string `json:"phone_number"`
	SignAddress   string `json:"sign_address"`
	ConfirmedAt   string `json:"confirmed_at"`
}
