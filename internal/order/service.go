package order

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/minimart-io/minimart/internal/domain"
)

// ErrNotFound is returned when no order matches the given id
var ErrNotFound = errors.New("order not found")

// reportable order statuses for the admin listing
var adminVisibleStatuses = []string{domain.OrderStatusPlaced, domain.OrderStatusPaid}

// Service provides the read-only order reporting queries used by the
// admin views. Orders are written by the storefront, never here.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AdminList returns all placed or paid orders with their user and line
// items attached. Result sets are unbounded, this is a single-admin tool.
func (s *Service) AdminList(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.db.WithContext(ctx).
		Joins("User").
		Preload("Items").
		Where("orders.status IN ?", adminVisibleStatuses).
		Order("orders.created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "query admin orders")
	}
	return orders, nil
}

// UserDetails holds one user's record split into paid and placed orders
type UserDetails struct {
	User         domain.User
	PaidOrders   []domain.Order
	PlacedOrders []domain.Order
}

// Details returns the per-user order breakdown for the admin detail view.
func (s *Service) Details(ctx context.Context, userID int64) (*UserDetails, error) {
	var d UserDetails
	if err := s.db.WithContext(ctx).First(&d.User, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "query user")
	}

	byStatus := func(status string) ([]domain.Order, error) {
		var orders []domain.Order
		err := s.db.WithContext(ctx).
			Preload("Items").
			Where("user_id = ? AND status = ?", userID, status).
			Order("created_at DESC").
			Find(&orders).Error
		return orders, err
	}

	var err error
	if d.PaidOrders, err = byStatus(domain.OrderStatusPaid); err != nil {
		return nil, errors.Wrap(err, "query paid orders")
	}
	if d.PlacedOrders, err = byStatus(domain.OrderStatusPlaced); err != nil {
		return nil, errors.Wrap(err, "query placed orders")
	}
	return &d, nil
}

// GetWithUser returns a single order with its user and items, as needed
// by the print view. Returns ErrNotFound when absent.
func (s *Service) GetWithUser(ctx context.Context, orderID int64) (*domain.Order, error) {
	var o domain.Order
	err := s.db.WithContext(ctx).
		Joins("User").
		Preload("Items").
		Where("orders.id = ?", orderID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query order")
	}
	return &o, nil
}

// AllUsers returns every storefront user for the admin user listing.
func (s *Service) AllUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	return users, nil
}
