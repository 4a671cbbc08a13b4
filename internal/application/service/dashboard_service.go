package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/money"
)

const (
	dashboardDays        = 7
	dashboardTopProducts = 5
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	deliveries    *DeliveryService
	goals         *GoalService
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	deliveries *DeliveryService,
	goals *GoalService,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		deliveries:    deliveries,
		goals:         goals,
		now:           time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	SalesToday        float64            `json:"sales_today"`
	SalesTodayCount   int64              `json:"sales_today_count"`
	MonthSales        float64            `json:"month_sales"`
	MonthSalesCount   int64              `json:"month_sales_count"`
	LowStockCount     int64              `json:"low_stock_count"`
	PendingDeliveries int64              `json:"pending_deliveries"`
	Commission        *CommissionSummary `json:"commission"`
	DailySalesData    []DailySalesPoint  `json:"daily_sales_data"`
	TopProducts       []TopProductPoint  `json:"top_products"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// TopProductPoint is one of the month's best sellers
type TopProductPoint struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	QuantitySold int       `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// GetDashboardStats returns the figures of today and the current month. The
// commission card follows the viewer's role.
func (s *DashboardService) GetDashboardStats(ctx context.Context, viewer Viewer) (*DashboardStats, error) {
	now := s.now()
	dayStart, dayEnd := dayRange(now)
	monthStart, monthEnd := monthRange(now)
	stats := &DashboardStats{}

	var err error
	if stats.SalesToday, stats.SalesTodayCount, err = s.salesIn(ctx, dayStart, dayEnd); err != nil {
		return nil, err
	}
	if stats.MonthSales, stats.MonthSalesCount, err = s.salesIn(ctx, monthStart, monthEnd); err != nil {
		return nil, err
	}

	if stats.LowStockCount, err = s.productRepo.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if stats.PendingDeliveries, err = s.deliveries.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.Commission, err = s.goals.CommissionSummary(ctx, viewer, ""); err != nil {
		return nil, err
	}

	daily, err := s.analyticsRepo.GetDailySales(ctx, dashboardDays)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:    d.Date.Format("02/01"),
			Revenue: money.ToFloat(d.Revenue),
			Profit:  money.ToFloat(d.Profit),
		})
	}

	top, err := s.analyticsRepo.GetTopProducts(ctx, monthStart, monthEnd, dashboardTopProducts)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = make([]TopProductPoint, 0, len(top))
	for _, p := range top {
		stats.TopProducts = append(stats.TopProducts, TopProductPoint{
			ProductID:    p.ProductID,
			Name:         p.ProductName,
			SKU:          p.SKU,
			QuantitySold: p.QuantitySold,
			Revenue:      money.ToFloat(p.Revenue),
		})
	}

	return stats, nil
}

func (s *DashboardService) salesIn(ctx context.Context, from, to time.Time) (float64, int64, error) {
	revenue, err := s.analyticsRepo.GetRevenue(ctx, from, to, nil)
	if err != nil {
		return 0, 0, err
	}
	count, err := s.analyticsRepo.CountSales(ctx, from, to)
	if err != nil {
		return 0, 0, err
	}
	return money.ToFloat(revenue), count, nil
}
