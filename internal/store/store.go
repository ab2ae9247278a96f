package store

import (
	"context"
	"time"

	"github.com/Matheusaraujo007/Lista-da-vez/internal/models"
)

type AssignServiceInput struct {
	SellerID      string
	ClientName    string
	ClientContact string
	ServiceType   string
	Observations  string
	// Override is the supervisor path: the seller does not have to be
	// first in the queue, only rotation-eligible.
	Override  bool
	CreatedAt time.Time
}

type CompleteServiceInput struct {
	ServiceID    string
	IsSale       bool
	SaleValue    float64
	ItemsCount   int
	LossReason   string
	Observations string
	CompletedAt  time.Time
}

type ServiceFilter struct {
	SellerID string
	Status   string
	From     time.Time
	To       time.Time
}

type Store interface {
	ListSellers(ctx context.Context) ([]models.Seller, error)
	GetSeller(ctx context.Context, sellerID string) (models.Seller, error)
	CreateSeller(ctx context.Context, name, avatar string) (models.Seller, error)
	UpdateSellerProfile(ctx context.Context, sellerID, name, avatar string) (models.Seller, error)
	DeleteSeller(ctx context.Context, sellerID string) error
	TransitionStatus(ctx context.Context, sellerID, status string) (models.Seller, error)

	AssignService(ctx context.Context, input AssignServiceInput) (models.ServiceRecord, error)
	CompleteService(ctx context.Context, input CompleteServiceInput) (models.ServiceRecord, error)
	CancelService(ctx context.Context, serviceID string) (models.ServiceRecord, error)
	GetService(ctx context.Context, serviceID string) (models.ServiceRecord, error)
	ListServices(ctx context.Context, filter ServiceFilter) ([]models.ServiceRecord, error)

	ListCustomStatuses(ctx context.Context) ([]models.CustomStatus, error)
	CreateCustomStatus(ctx context.Context, status models.CustomStatus) (models.CustomStatus, error)
	UpdateCustomStatus(ctx context.Context, status models.CustomStatus) (models.CustomStatus, error)
	DeleteCustomStatus(ctx context.Context, statusID string) error

	GetStoreGoals(ctx context.Context) (models.StoreGoals, error)
	UpsertStoreGoals(ctx context.Context, goals models.StoreGoals) (models.StoreGoals, error)
	UpsertSellerGoals(ctx context.Context, sellerID string, goals models.SellerGoals) error

	GetClient(ctx context.Context, contact string) (models.Client, error)
}
