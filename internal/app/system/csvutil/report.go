// internal/app/system/csvutil/report.go
package csvutil

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/openreuse/donatehub/internal/app/store/reports"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// WriteReport renders the admin report as CSV: a summary section, a
// per-type section, the NGO leaderboard, and the full donation list.
// Sections are separated by a blank row so the file opens readably in a
// spreadsheet.
func WriteReport(w io.Writer, stats reports.Stats, byType map[string]reports.TypeStats, topNgos []reports.NgoRanking, donations []models.Donation) error {
	cw := csv.NewWriter(w)

	summary := [][]string{
		{"metric", "value"},
		{"total_users", strconv.Itoa(stats.TotalUsers)},
		{"total_donors", strconv.Itoa(stats.TotalDonors)},
		{"total_ngos", strconv.Itoa(stats.TotalNgos)},
		{"verified_ngos", strconv.Itoa(stats.VerifiedNgos)},
		{"pending_ngos", strconv.Itoa(stats.PendingNgos)},
		{"total_donations", strconv.Itoa(stats.TotalDonations)},
		{"pending_donations", strconv.Itoa(stats.PendingDonations)},
		{"accepted_donations", strconv.Itoa(stats.AcceptedDonations)},
		{"picked_up_donations", strconv.Itoa(stats.PickedUpDonations)},
		{"completed_donations", strconv.Itoa(stats.CompletedDonations)},
		{"total_items", strconv.Itoa(stats.TotalItems)},
	}
	if err := cw.WriteAll(summary); err != nil {
		return err
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.Write([]string{"item_type", "donations", "items"}); err != nil {
		return err
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		ts := byType[t]
		if err := cw.Write([]string{t, strconv.Itoa(ts.Count), strconv.Itoa(ts.Items)}); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.Write([]string{"ngo", "organization", "donations_received", "items_received"}); err != nil {
		return err
	}
	for _, n := range topNgos {
		row := []string{
			n.Name,
			n.OrganizationName,
			strconv.Itoa(n.DonationCount),
			strconv.Itoa(n.TotalItems),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	header := []string{
		"id", "donor", "ngo", "item_type", "item_name", "quantity",
		"status", "rejection_reason", "created_at", "updated_at",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range donations {
		d := &donations[i]
		row := []string{
			strconv.Itoa(d.ID),
			d.DonorName,
			d.NgoName,
			d.ItemType,
			d.ItemName,
			strconv.Itoa(d.Quantity),
			string(d.Status),
			d.RejectionReason,
			d.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			d.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
