package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	SKU          string
	QuantitySold int
	Revenue      int64
}

// SellerSalesResult represents completed sales aggregated by seller
type SellerSalesResult struct {
	SellerID   uuid.UUID
	SellerName string
	Total      int64
	SaleCount  int
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue int64
	Profit  int64
}

// AnalyticsRepository defines interface for aggregation queries over completed sales
type AnalyticsRepository interface {
	// GetRevenue sums completed sales in [from, to). A non-nil sellerID restricts to that seller.
	GetRevenue(ctx context.Context, from, to time.Time, sellerID *uuid.UUID) (int64, error)

	// CountSales counts completed sales in [from, to)
	CountSales(ctx context.Context, from, to time.Time) (int64, error)

	// GetSalesBySeller returns completed sales in [from, to) grouped by seller
	GetSalesBySeller(ctx context.Context, from, to time.Time) ([]SellerSalesResult, error)

	// GetTopProducts returns top selling products by revenue in [from, to)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResult, error)

	// GetDailySales returns daily sales data for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)
}
