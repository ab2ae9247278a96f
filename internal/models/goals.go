package models

import "time"

// StoreGoals is the store-wide target set, a singleton row.
type StoreGoals struct {
	Revenue        float64   `json:"revenue"`
	UnitsPerSale   float64   `json:"units_per_sale"`
	AverageTicket  float64   `json:"average_ticket"`
	ConversionRate float64   `json:"conversion_rate"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SellerGoals holds per-seller overrides. Nil fields fall back to the
// store goals.
type SellerGoals struct {
	Revenue        *float64 `json:"revenue,omitempty"`
	UnitsPerSale   *float64 `json:"units_per_sale,omitempty"`
	AverageTicket  *float64 `json:"average_ticket,omitempty"`
	ConversionRate *float64 `json:"conversion_rate,omitempty"`
}

// Client is the CRM side record keyed by contact number, used only for
// the returning-client hint.
type Client struct {
	Contact      string    `json:"contact"`
	Name         string    `json:"name"`
	LastSellerID string    `json:"last_seller_id,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
