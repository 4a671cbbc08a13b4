package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
	domainRepo "github.com/primake/primake-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetRevenue(ctx context.Context, from, to time.Time, sellerID *uuid.UUID) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Table("sales").
		Select("COALESCE(SUM(total), 0)").
		Where("status = ? AND type = ? AND deleted_at IS NULL", enum.SaleStatusCompleted, enum.SaleTypeSale).
		Where("date >= ? AND date < ?", from, to)
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}
	err := query.Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) CountSales(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("sales").
		Where("status = ? AND type = ? AND deleted_at IS NULL", enum.SaleStatusCompleted, enum.SaleTypeSale).
		Where("date >= ? AND date < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) GetSalesBySeller(ctx context.Context, from, to time.Time) ([]domainRepo.SellerSalesResult, error) {
	var results []domainRepo.SellerSalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			seller_id,
			MAX(seller_name) as seller_name,
			COALESCE(SUM(total), 0) as total,
			COUNT(*) as sale_count
		FROM sales
		WHERE status = ? AND type = ? AND deleted_at IS NULL
			AND seller_id IS NOT NULL
			AND date >= ? AND date < ?
		GROUP BY seller_id
		ORDER BY total DESC
	`, enum.SaleStatusCompleted, enum.SaleTypeSale, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			si.product_id as product_id,
			MAX(si.name) as product_name,
			MAX(si.sku) as sku,
			COALESCE(SUM(si.quantity), 0) as quantity_sold,
			COALESCE(SUM(si.total), 0) as revenue
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.status = ? AND s.deleted_at IS NULL
			AND s.date >= ? AND s.date < ?
		GROUP BY si.product_id
		ORDER BY revenue DESC
		LIMIT ?
	`, enum.SaleStatusCompleted, from, to, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	var results []domainRepo.DailySalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE(s.date) as date,
			COALESCE(SUM(s.total), 0) as revenue,
			COALESCE(SUM(s.total), 0) - COALESCE(SUM(c.cost), 0) as profit
		FROM sales s
		LEFT JOIN (
			SELECT sale_id, SUM(unit_cost * quantity) as cost
			FROM sale_items
			GROUP BY sale_id
		) c ON c.sale_id = s.id
		WHERE s.status = ? AND s.deleted_at IS NULL
			AND s.date >= CURRENT_DATE - (? * INTERVAL '1 day')
		GROUP BY DATE(s.date)
		ORDER BY date ASC
	`, enum.SaleStatusCompleted, days).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}
