package repository

import (
	"context"
	"errors"

	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a customer reference is already booked.
	ErrDuplicate = errors.New("duplicate customer number")
)

// ForecastOrderRepo stores sandbox orders with their child shipments.
type ForecastOrderRepo interface {
	Create(ctx context.Context, o *domain.ForecastOrder) error
	GetBySystemNumber(ctx context.Context, systemNumber string) (*domain.ForecastOrder, error)
	GetByCustomerNumber(ctx context.Context, customerNumber string) (*domain.ForecastOrder, error)
	GetByWaybill(ctx context.Context, waybill string) (*domain.ForecastOrder, error)
	AssignWaybill(ctx context.Context, systemNumber, waybill string) error
	Count(ctx context.Context) (int, error)
}
