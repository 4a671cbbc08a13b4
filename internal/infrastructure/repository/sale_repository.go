package repository

import (
	"context"
	"errors"

	"github.com/primake/primake-api/internal/domain/entity"
	domainRepo "github.com/primake/primake-api/internal/domain/repository"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// Create inserts the sale, items and payments. GORM wraps the association
// writes in the same transaction.
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) UpdateEditable(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]interface{}{
			"status":        sale.Status,
			"payment_label": sale.PaymentLabel,
			"notes":         sale.Notes,
		}).Error
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Scopes(SearchScope(params.Search, "id", "customer_name"), DateRangeScope("date", params.StartDate, params.EndDate))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Preload("Payments").
		Order(orderClause(params.SortBy, params.SortOrder, "date", "date", "total", "customer_name")).
		Find(&sales).Error

	return sales, total, err
}

// ListWithCursor returns sales using cursor-based pagination
func (r *saleRepository) ListWithCursor(ctx context.Context, params *domainRepo.SaleCursorFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Scopes(SearchScope(params.Search, "id", "customer_name"), DateRangeScope("date", params.StartDate, params.EndDate))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	// Fetch limit+1 to detect hasMore
	err = query.Scopes(CursorScope(cursor, params.Cursor.Direction)).
		Limit(params.Cursor.Limit + 1).
		Preload("Items").
		Preload("Payments").
		Order("created_at ASC, id ASC").
		Find(&sales).Error

	return sales, err
}
