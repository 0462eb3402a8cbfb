// internal/domain/models/donation.go
package models

import "time"

// DonationStatus is the closed set of donation lifecycle states.
type DonationStatus string

const (
	StatusPending   DonationStatus = "pending"
	StatusAccepted  DonationStatus = "accepted"
	StatusPickedUp  DonationStatus = "picked_up"
	StatusDelivered DonationStatus = "delivered"
	StatusRejected  DonationStatus = "rejected"
	StatusCancelled DonationStatus = "cancelled"
)

// AllStatuses lists every lifecycle state in flow order, side exits last.
// Report aggregation iterates this so counts stay exhaustive when the
// state set changes.
var AllStatuses = []DonationStatus{
	StatusPending,
	StatusAccepted,
	StatusPickedUp,
	StatusDelivered,
	StatusRejected,
	StatusCancelled,
}

// Valid reports whether s is a known lifecycle state.
func (s DonationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPickedUp,
		StatusDelivered, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions leave s.
func (s DonationStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Label returns the display text for the status badge.
func (s DonationStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusAccepted:
		return "Accepted"
	case StatusPickedUp:
		return "Picked Up"
	case StatusDelivered:
		return "Delivered"
	case StatusRejected:
		return "Rejected"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// PickupWindow is the closed set of pickup time slots.
type PickupWindow string

const (
	WindowMorning   PickupWindow = "morning"
	WindowAfternoon PickupWindow = "afternoon"
	WindowEvening   PickupWindow = "evening"
)

// Valid reports whether w is a known pickup slot.
func (w PickupWindow) Valid() bool {
	switch w {
	case WindowMorning, WindowAfternoon, WindowEvening:
		return true
	}
	return false
}

// Label returns the display text for the pickup slot.
func (w PickupWindow) Label() string {
	switch w {
	case WindowMorning:
		return "Morning (9 AM - 12 PM)"
	case WindowAfternoon:
		return "Afternoon (12 PM - 4 PM)"
	case WindowEvening:
		return "Evening (4 PM - 7 PM)"
	}
	return string(w)
}

// Donation is a single donor-to-NGO item-transfer request tracked
// through the pickup/delivery lifecycle.
//
// Donor and NGO display fields are denormalized onto the record at
// submission time; they are not re-resolved if the referenced account
// later changes or disappears. Records are never deleted — cancelled
// and rejected are terminal states, not removals.
type Donation struct {
	ID         int    `json:"id"`
	DonorID    int    `json:"donorId"`
	DonorName  string `json:"donorName"`
	DonorEmail string `json:"donorEmail"`
	NgoID      int    `json:"ngoId"`
	NgoName    string `json:"ngoName"`

	ItemType    string `json:"itemType"`
	ItemName    string `json:"itemName"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`

	PickupAddress string       `json:"pickupAddress"`
	PickupDate    string       `json:"pickupDate"`
	PickupWindow  PickupWindow `json:"pickupTime"`
	ContactPhone  string       `json:"contactPhone"`

	Status          DonationStatus `json:"status"`
	RejectionReason string         `json:"rejectionReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
