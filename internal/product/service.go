package product

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/pkg/common"
)

// Data carries product fields submitted from the admin forms.
// A nil Price or an empty string field means "not provided" and is
// skipped by Update.
type Data struct {
	Name        string
	Price       *float64
	Category    string
	Description string
	Image       string
}

// Service implements catalog CRUD over the products table
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add creates a new product. Returns ErrDuplicateName when a product with
// the same name exists. The name uniqueness is additionally enforced by a
// unique index, so a concurrent duplicate insert fails at the database
// instead of silently succeeding.
func (s *Service) Add(ctx context.Context, data Data) (*domain.Product, error) {
	name := strings.TrimSpace(data.Name)

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "query product by name")
	}
	if count > 0 {
		return nil, ErrDuplicateName
	}

	var price float64
	if data.Price != nil {
		price = *data.Price
	}

	now := time.Now()
	p := domain.Product{
		ID:          common.UUIDint64(),
		Name:        name,
		Price:       price,
		Category:    strings.TrimSpace(data.Category),
		Description: data.Description,
		Image:       data.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, errors.Wrap(err, "create product")
	}

	zap.L().Info("product added", zap.String("name", p.Name), zap.Int64("id", p.ID))
	return &p, nil
}

// All returns every product. Display ordering is the caller's concern.
func (s *Service) All(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	return products, nil
}

// Get returns one product by id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query product")
	}
	return &p, nil
}

// Update applies a partial update: only fields present in data change,
// everything else keeps its prior value. Returns ErrNotFound when the
// product does not exist.
func (s *Service) Update(ctx context.Context, id int64, data Data) (*domain.Product, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(data.Name); name != "" {
		updates["name"] = name
	}
	if data.Price != nil {
		updates["price"] = *data.Price
	}
	if c := strings.TrimSpace(data.Category); c != "" {
		updates["category"] = c
	}
	if data.Description != "" {
		updates["description"] = data.Description
	}
	if data.Image != "" {
		updates["image"] = data.Image
	}
	if len(updates) == 0 {
		return current, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, errors.Wrap(err, "update product")
	}
	return s.Get(ctx, id)
}

// Delete removes a product and returns the deleted record so callers can
// clean up the associated image asset. Returns ErrNotFound when absent.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&domain.Product{}, id).Error; err != nil {
		return nil, errors.Wrap(err, "delete product")
	}
	zap.L().Info("product deleted", zap.String("name", p.Name), zap.Int64("id", p.ID))
	return p, nil
}
