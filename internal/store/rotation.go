package store

import (
	"sort"

	"github.com/Matheusaraujo007/Lista-da-vez/internal/models"
)

// RotationEligible reports whether a status keeps a seller in the
// walk-in queue. System statuses other than AVAILABLE always pull the
// seller out; custom status ids resolve through the registry, and an
// unresolvable id counts as INACTIVE.
func RotationEligible(status string, custom map[string]models.CustomStatus) bool {
	if models.IsSystemStatus(status) {
		return status == models.StatusAvailable
	}
	cs, ok := custom[status]
	if !ok {
		return false
	}
	return cs.Behavior == models.BehaviorActive
}

// QueueOrder filters a seller snapshot down to the sellers currently
// holding a rotation slot and sorts them by position ascending. The
// input slice is left untouched.
func QueueOrder(sellers []models.Seller, custom map[string]models.CustomStatus) []models.Seller {
	queue := make([]models.Seller, 0, len(sellers))
	for _, seller := range sellers {
		if seller.QueuePosition == nil {
			continue
		}
		if !RotationEligible(seller.Status, custom) {
			continue
		}
		queue = append(queue, seller)
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return *queue[i].QueuePosition < *queue[j].QueuePosition
	})
	return queue
}

// StatusIndex builds the lookup map QueueOrder and RotationEligible
// expect from a custom status list.
func StatusIndex(statuses []models.CustomStatus) map[string]models.CustomStatus {
	index := make(map[string]models.CustomStatus, len(statuses))
	for _, status := range statuses {
		index[status.StatusID] = status
	}
	return index
}
