// internal/app/features/donations/views.go
package donations

import (
	"errors"
	"time"

	"github.com/openreuse/donatehub/internal/app/policy/donationpolicy"
	"github.com/openreuse/donatehub/internal/domain/models"
)

var errUnknownStatus = errors.New("unknown status filter")

// donationView is the client-facing shape of a donation, annotated with
// the actions the viewing user may take right now.
type donationView struct {
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

	PickupAddress string `json:"pickupAddress"`
	PickupDate    string `json:"pickupDate"`
	PickupWindow  string `json:"pickupTime"`
	ContactPhone  string `json:"contactPhone"`

	Status          string `json:"status"`
	StatusLabel     string `json:"statusLabel"`
	RejectionReason string `json:"rejectionReason,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	Actions []donationpolicy.Action `json:"actions,omitempty"`
}

func newDonationView(d *models.Donation, viewer *models.User) donationView {
	return donationView{
		ID:         d.ID,
		DonorID:    d.DonorID,
		DonorName:  d.DonorName,
		DonorEmail: d.DonorEmail,
		NgoID:      d.NgoID,
		NgoName:    d.NgoName,

		ItemType:    d.ItemType,
		ItemName:    d.ItemName,
		Quantity:    d.Quantity,
		Description: d.Description,

		PickupAddress: d.PickupAddress,
		PickupDate:    d.PickupDate,
		PickupWindow:  string(d.PickupWindow),
		ContactPhone:  d.ContactPhone,

		Status:          string(d.Status),
		StatusLabel:     d.Status.Label(),
		RejectionReason: d.RejectionReason,

		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.UTC().Format(time.RFC3339),

		Actions: donationpolicy.AllowedActions(viewer, d),
	}
}

func newDonationViews(ds []models.Donation, viewer *models.User) []donationView {
	views := make([]donationView, 0, len(ds))
	for i := range ds {
		views = append(views, newDonationView(&ds[i], viewer))
	}
	return views
}
