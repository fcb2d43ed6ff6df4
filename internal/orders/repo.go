package orders

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pulseras/storefront-backend/pkg/db/models"
	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// Repository is the gorm-backed order store.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Replace(ctx context.Context, order *models.Order) error
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Replace writes every column of order, zero values included.
func (r *repository) Replace(ctx context.Context, order *models.Order) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(order)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RepositoryService serves orders from the local database.
type RepositoryService struct {
	repo Repository
	tx   txRunner
}

func NewRepositoryService(repo Repository, tx txRunner) (*RepositoryService, error) {
	if repo == nil {
		return nil, errors.New("orders repository required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner required")
	}
	return &RepositoryService{repo: repo, tx: tx}, nil
}

func (s *RepositoryService) GetByID(ctx context.Context, id string) (*models.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "load order")
	}
	return order, nil
}

// Update replaces the stored order with the supplied record and returns the stored result.
func (s *RepositoryService) Update(ctx context.Context, id string, order *models.Order) (*models.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order body is required")
	}
	if !order.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	record := *order
	record.ID = id
	var stored *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Replace(ctx, &record); err != nil {
			return err
		}
		found, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		stored = found
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err, "update order")
	}
	return stored, nil
}

func mapRepoErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
