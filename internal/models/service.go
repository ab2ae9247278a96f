package models

import "time"

type ServiceRecord struct {
	ServiceID     string     `json:"service_id"`
	SellerID      string     `json:"seller_id"`
	ClientName    string     `json:"client_name"`
	ClientContact string     `json:"client_contact,omitempty"`
	ServiceType   string     `json:"service_type"`
	Status        string     `json:"status"`
	IsSale        bool       `json:"is_sale"`
	SaleValue     float64    `json:"sale_value"`
	ItemsCount    int        `json:"items_count"`
	LossReason    string     `json:"loss_reason,omitempty"`
	Observations  string     `json:"observations,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

const (
	ServicePending   = "PENDING"
	ServiceCompleted = "COMPLETED"
	ServiceCancelled = "CANCELLED"
)

const (
	TypePurchase     = "COMPRA"
	TypeExchange     = "TROCA"
	TypeQuote        = "ORCAMENTO"
	TypeInquiry      = "INFORMACAO"
	TypeReactivation = "REATIVACAO"
)

func ValidServiceType(serviceType string) bool {
	switch serviceType {
	case TypePurchase, TypeExchange, TypeQuote, TypeInquiry, TypeReactivation:
		return true
	default:
		return false
	}
}

const (
	LossPrice    = "preco"
	LossStock    = "estoque"
	LossBrowsing = "pesquisa"
	LossOther    = "outros"
)

func ValidLossReason(reason string) bool {
	switch reason {
	case LossPrice, LossStock, LossBrowsing, LossOther:
		return true
	default:
		return false
	}
}
