package store

import "errors"

var (
	ErrSellerNotFound  = errors.New("seller not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrStatusNotFound  = errors.New("custom status not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrInvalidState    = errors.New("invalid service state")
	ErrNotNextInQueue  = errors.New("seller is not first in queue")
	ErrSellerBusy      = errors.New("seller already has a pending service")
)
