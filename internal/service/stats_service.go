package service

import (
	"context"
	"time"

	"shop-backoffice/internal/models"
	"shop-backoffice/internal/store"
	"shop-backoffice/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardStats is the back-office landing page summary
type DashboardStats struct {
	TotalUsers     int64                `json:"total_users"`
	NewUsers30d    int64                `json:"new_users_30d"`
	TotalProducts  int64                `json:"total_products"`
	TotalOrders    int64                `json:"total_orders"`
	TotalRevenue   decimal.Decimal      `json:"total_revenue"`
	TopProducts    []models.Product     `json:"top_products"`
	OrdersByStatus []store.StatusCount  `json:"orders_by_status"`
	MonthlyRevenue []store.MonthRevenue `json:"monthly_revenue"`
}

// StatsService aggregates dashboard figures
type StatsService struct {
	stats  StatsStore
	now    func() time.Time
	logger *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(stats StatsStore) *StatsService {
	return &StatsService{
		stats:  stats,
		now:    time.Now,
		logger: util.GetLogger(),
	}
}

// Dashboard builds the full stats summary. Revenue figures count completed
// orders only; monthly revenue covers the current year.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	ctx, span := util.StartSpan(ctx, "StatsService.Dashboard")
	defer span.End()

	now := s.now()
	result := &DashboardStats{}

	var err error
	if result.TotalUsers, err = s.stats.CountUsers(ctx); err != nil {
		return nil, err
	}
	if result.NewUsers30d, err = s.stats.CountUsersSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return nil, err
	}
	if result.TotalProducts, err = s.stats.CountProducts(ctx); err != nil {
		return nil, err
	}
	if result.TotalOrders, err = s.stats.CountOrders(ctx); err != nil {
		return nil, err
	}
	if result.TotalRevenue, err = s.stats.CompletedRevenue(ctx); err != nil {
		return nil, err
	}
	if result.TopProducts, err = s.stats.TopProducts(ctx, 5); err != nil {
		return nil, err
	}
	if result.OrdersByStatus, err = s.stats.OrderStatusCounts(ctx); err != nil {
		return nil, err
	}
	if result.MonthlyRevenue, err = s.stats.MonthlyRevenue(ctx, now.Year()); err != nil {
		return nil, err
	}

	s.logger.Debug("Dashboard stats built",
		zap.Int64("total_orders", result.TotalOrders),
		zap.String("total_revenue", result.TotalRevenue.String()))
	return result, nil
}
