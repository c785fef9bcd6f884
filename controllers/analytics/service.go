package analyticsControllers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/orderstack/checkout-api/apperr"
	"github.com/orderstack/checkout-api/models"
)

const (
	DefaultWindowDays        = 30
	DefaultLowStockThreshold = 10
	resultCap                = 5
)

// Service computes read-only rollups over committed orders, payments and
// products. Nothing here mutates state.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type RevenueMetric struct {
	Current   decimal.Decimal `json:"current"`
	Previous  decimal.Decimal `json:"previous"`
	ChangePct float64         `json:"change_pct"`
}

type CountMetric struct {
	Current   int64   `json:"current"`
	Previous  int64   `json:"previous"`
	ChangePct float64 `json:"change_pct"`
}

type TopProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
}

type Report struct {
	WindowDays        int                          `json:"window_days"`
	Revenue           RevenueMetric                `json:"revenue"`
	Orders            CountMetric                  `json:"orders"`
	AverageOrderValue decimal.Decimal              `json:"average_order_value"`
	StatusCounts      map[models.OrderStatus]int64 `json:"status_counts"`
	LowStock          []models.Product             `json:"low_stock"`
	TopProducts       []TopProduct                 `json:"top_products"`
}

// Dashboard aggregates the trailing window of `days` against the
// preceding window of equal length. The queries fan out concurrently;
// an empty dataset yields a zeroed report, never an error.
func (s *Service) Dashboard(ctx context.Context, days, lowStockThreshold int) (*Report, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}

	now := time.Now().UTC()
	curStart := now.AddDate(0, 0, -days)
	prevStart := now.AddDate(0, 0, -2*days)

	report := &Report{
		WindowDays:   days,
		StatusCounts: map[models.OrderStatus]int64{},
	}
	var (
		curRevenue, prevRevenue decimal.Decimal
		curDelivered            int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curRevenue, curDelivered, err = s.deliveredRevenue(gctx, curStart, now)
		return err
	})
	g.Go(func() error {
		var err error
		prevRevenue, _, err = s.deliveredRevenue(gctx, prevStart, curStart)
		return err
	})
	g.Go(func() error {
		var err error
		report.Orders.Current, err = s.orderCount(gctx, curStart, now)
		return err
	})
	g.Go(func() error {
		var err error
		report.Orders.Previous, err = s.orderCount(gctx, prevStart, curStart)
		return err
	})
	g.Go(func() error {
		return s.statusCounts(gctx, curStart, now, report.StatusCounts)
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("stock <= ?", lowStockThreshold).
			Order("stock ASC").
			Limit(resultCap).
			Find(&report.LowStock).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.OrderItem{}).
			Select("order_items.product_id, products.name, SUM(order_items.quantity) AS total_sold").
			Joins("JOIN products ON products.id = order_items.product_id").
			Group("order_items.product_id, products.name").
			Order("total_sold DESC").
			Limit(resultCap).
			Scan(&report.TopProducts).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err)
	}

	report.Revenue = RevenueMetric{
		Current:   curRevenue,
		Previous:  prevRevenue,
		ChangePct: pctChange(curRevenue, prevRevenue),
	}
	report.Orders.ChangePct = pctChange(
		decimal.NewFromInt(report.Orders.Current),
		decimal.NewFromInt(report.Orders.Previous),
	)
	if curDelivered > 0 {
		report.AverageOrderValue = curRevenue.DivRound(decimal.NewFromInt(curDelivered), 2)
	} else {
		report.AverageOrderValue = decimal.Zero
	}
	if report.LowStock == nil {
		report.LowStock = []models.Product{}
	}
	if report.TopProducts == nil {
		report.TopProducts = []TopProduct{}
	}
	return report, nil
}

// deliveredRevenue sums totals of delivered orders created in [from, to)
// and returns the matching order count.
func (s *Service) deliveredRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	var revenue decimal.Decimal
	var count int64
	row := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0), COUNT(*)").
		Where("status = ? AND created_at >= ? AND created_at < ?", models.OrderStatusDelivered, from, to).
		Row()
	if err := row.Scan(&revenue, &count); err != nil {
		return decimal.Zero, 0, err
	}
	return revenue, count, nil
}

func (s *Service) orderCount(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (s *Service) statusCounts(ctx context.Context, from, to time.Time, out map[models.OrderStatus]int64) error {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("status").
		Scan(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return nil
}

// pctChange is (current - previous) / previous * 100. A zero previous
// window reports 100 when there was any current activity (growth from
// baseline) and 0 when both windows are empty; never a division error.
func pctChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	pct, _ := current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return pct
}
