package models

import "time"

type Seller struct {
	SellerID      string     `json:"seller_id"`
	Name          string     `json:"name"`
	Avatar        string     `json:"avatar,omitempty"`
	Status        string     `json:"status"`
	QueuePosition *int       `json:"queue_position,omitempty"`
	LastServiceAt *time.Time `json:"last_service_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	// Read projection: the seller's single pending service, if any.
	ActiveServiceID    string     `json:"active_service_id,omitempty"`
	ActiveClientName   string     `json:"active_client_name,omitempty"`
	ActiveServiceStart *time.Time `json:"active_service_start,omitempty"`

	Goals *SellerGoals `json:"goals,omitempty"`
}

// System statuses. Anything else in the status column is a custom
// status id resolved against custom_statuses.
const (
	StatusAvailable = "AVAILABLE"
	StatusInService = "IN_SERVICE"
	StatusBreak     = "BREAK"
	StatusLunch     = "LUNCH"
	StatusAway      = "AWAY"
)

func IsSystemStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusInService, StatusBreak, StatusLunch, StatusAway:
		return true
	default:
		return false
	}
}

type CustomStatus struct {
	StatusID string `json:"status_id"`
	Label    string `json:"label"`
	Icon     string `json:"icon,omitempty"`
	Color    string `json:"color,omitempty"`
	Behavior string `json:"behavior"`
}

const (
	BehaviorActive   = "ACTIVE"
	BehaviorInactive = "INACTIVE"
)
