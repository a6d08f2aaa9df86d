package slots

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Recompute returns a copy of slot carrying occurrences, with every derived
// field folded from them from scratch. It is the only place aggregates are
// computed.
func Recompute(slot Slot, occurrences []Occurrence) Slot {
	out := slot
	out.Occurrences = slices.Clone(occurrences)
	out.TotalCheckins = 0
	out.TotalRevenue = decimal.Zero
	out.TotalCancelled = 0
	out.TotalNonPaid = 0
	out.TotalHours = 0
	out.TotalOccurrences = int64(len(occurrences))
	out.TotalEmpty = 0
	out.TotalNonEmpty = 0
	for _, occ := range occurrences {
		out.TotalCheckins += occ.Checkins
		out.TotalRevenue = out.TotalRevenue.Add(occ.Revenue)
		out.TotalCancelled += occ.Cancelled
		out.TotalNonPaid += occ.NonPaid
		out.TotalHours += occ.Hours
		if occ.IsEmpty {
			out.TotalEmpty++
		} else {
			out.TotalNonEmpty++
		}
	}
	out.ClassAverageIncludingEmpty = NewAverage(out.TotalCheckins, out.TotalOccurrences)
	out.ClassAverageExcludingEmpty = NewAverage(out.TotalCheckins, out.TotalNonEmpty)
	return out
}

// FilterOccurrences returns slot recomputed over the occurrences keep accepts.
func FilterOccurrences(slot Slot, keep func(Occurrence) bool) Slot {
	kept := make([]Occurrence, 0, len(slot.Occurrences))
	for _, occ := range slot.Occurrences {
		if keep(occ) {
			kept = append(kept, occ)
		}
	}
	return Recompute(slot, kept)
}
