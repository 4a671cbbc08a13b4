package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/commission"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/internal/domain/repository"
	"github.com/primake/primake-api/pkg/apperror"
	"github.com/primake/primake-api/pkg/cache"
	"github.com/primake/primake-api/pkg/money"
	"go.uber.org/zap"
)

const (
	periodLayout = "2006-01"
	goalCacheTTL = 15 * time.Minute
)

// GoalService computes commission and tracks sales goals
type GoalService struct {
	userRepo      repository.UserRepository
	goalRepo      repository.GoalRepository
	analyticsRepo repository.AnalyticsRepository
	cache         cache.Cache
	rules         commission.Rules
	log           *zap.Logger
	now           func() time.Time
}

// NewGoalService creates a new goal service
func NewGoalService(
	userRepo repository.UserRepository,
	goalRepo repository.GoalRepository,
	analyticsRepo repository.AnalyticsRepository,
	c cache.Cache,
	rules commission.Rules,
	log *zap.Logger,
) *GoalService {
	return &GoalService{
		userRepo:      userRepo,
		goalRepo:      goalRepo,
		analyticsRepo: analyticsRepo,
		cache:         c,
		rules:         rules,
		log:           log,
		now:           time.Now,
	}
}

// Viewer identifies the user asking for commission figures
type Viewer struct {
	UserID uuid.UUID
	Name   string
	Role   enum.Role
}

// CommissionSummary is the commission card of the dashboard
type CommissionSummary struct {
	Period     string  `json:"period"`
	Scope      string  `json:"scope"` // own or store
	Base       float64 `json:"base"`
	Rate       float64 `json:"rate"`
	Commission float64 `json:"commission"`
	HighTier   bool    `json:"high_tier"`
	Shortfall  float64 `json:"shortfall"`
	Hint       string  `json:"hint"`
}

// ParsePeriod reads "2026-10". An empty period is the current month.
func (s *GoalService) ParsePeriod(period string) (time.Time, error) {
	if period == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation(periodLayout, period, s.now().Location())
	if err != nil {
		return time.Time{}, apperror.NewBadRequestError("Period must be in YYYY-MM format")
	}
	return t, nil
}

// CommissionSummary computes the viewer's commission for the month. Sellers
// earn on their own completed sales, everyone else sees the store figure.
func (s *GoalService) CommissionSummary(ctx context.Context, viewer Viewer, period string) (*CommissionSummary, error) {
	month, err := s.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	from, to := monthRange(month)

	scope := "store"
	var sellerID *uuid.UUID
	if viewer.Role.CommissionOnOwnSales() {
		scope = "own"
		id := viewer.UserID
		sellerID = &id
	}

	base, err := s.analyticsRepo.GetRevenue(ctx, from, to, sellerID)
	if err != nil {
		return nil, err
	}

	tier := commission.Calculate(base, s.rules)
	summary := &CommissionSummary{
		Period:     month.Format(periodLayout),
		Scope:      scope,
		Base:       money.ToFloat(tier.Base),
		Rate:       tier.Rate,
		Commission: money.ToFloat(tier.Commission),
		HighTier:   tier.HighTier,
		Shortfall:  money.ToFloat(tier.Shortfall),
	}
	if tier.HighTier {
		summary.Hint = fmt.Sprintf("Tier 2 (%g%%)", tier.Rate*100)
	} else {
		summary.Hint = fmt.Sprintf("Tier 1 (%g%%). Faltam %s p/ %g%%", tier.Rate*100, money.BRL(tier.Shortfall), s.rules.HighRate*100)
	}
	return summary, nil
}

// GoalView is a sales user's target for a period
type GoalView struct {
	UserID    uuid.UUID     `json:"user_id"`
	Name      string        `json:"name"`
	Role      enum.Role     `json:"role"`
	Amount    float64       `json:"amount"`
	Type      enum.GoalType `json:"type"`
	Monthly   float64       `json:"monthly"`
	Daily     float64       `json:"daily"`
	IsDefault bool          `json:"is_default"` // no goal saved for the period
}

// GoalsView lists every sales user's target and the store total
type GoalsView struct {
	Period    string     `json:"period"`
	StoreGoal float64    `json:"store_goal"`
	Goals     []GoalView `json:"goals"`
}

// SaveGoalInput sets a user's target for a period
type SaveGoalInput struct {
	UserID uuid.UUID
	Amount float64
	Type   enum.GoalType
	Period string
}

// SaveUserGoal stores the goal and drops the cached goal list of the period
func (s *GoalService) SaveUserGoal(ctx context.Context, input *SaveGoalInput) (*entity.SalesGoal, error) {
	if input.Amount < 0 {
		return nil, apperror.NewBadRequestError("Goal cannot be negative")
	}
	if !input.Type.IsValid() {
		return nil, apperror.NewBadRequestError("Goal type must be monthly or daily")
	}
	month, err := s.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	if !user.Role.IsSalesRole() {
		return nil, apperror.NewUnprocessableError("not_sales_role", fmt.Sprintf("%s does not have a sales goal", user.Role))
	}

	goal := &entity.SalesGoal{
		UserID: user.ID,
		Period: month.Format(periodLayout),
		Amount: money.FromFloat(input.Amount),
		Type:   input.Type,
	}
	if err := s.goalRepo.Upsert(ctx, goal); err != nil {
		return nil, err
	}

	s.invalidate(ctx, goal.Period)
	return goal, nil
}

// GetGoals returns the targets of every active sales user. Users without a
// goal for the period fall back to their default goal.
func (s *GoalService) GetGoals(ctx context.Context, period string) (*GoalsView, error) {
	month, err := s.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	key := s.cacheKey(month.Format(periodLayout))

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var view GoalsView
		if json.Unmarshal([]byte(cached), &view) == nil {
			return &view, nil
		}
	}

	view, err := s.loadGoals(ctx, month.Format(periodLayout))
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(view); err == nil {
		if err := s.cache.Set(ctx, key, data, goalCacheTTL); err != nil {
			s.log.Warn("failed to cache goals", zap.String("period", view.Period), zap.Error(err))
		}
	}
	return view, nil
}

func (s *GoalService) loadGoals(ctx context.Context, period string) (*GoalsView, error) {
	users, err := s.userRepo.ListActive(ctx, enum.RoleAdministrador, enum.RoleGerente, enum.RoleVendedor)
	if err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.ListByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]entity.SalesGoal, len(goals))
	for _, g := range goals {
		byUser[g.UserID] = g
	}

	targets := make([]commission.Target, 0, len(users))
	view := &GoalsView{Period: period, Goals: make([]GoalView, 0, len(users))}
	for _, u := range users {
		t := commission.Target{UserID: u.ID, Name: u.Name, Role: u.Role, Amount: u.DefaultGoal, Type: u.DefaultGoalType}
		g, saved := byUser[u.ID]
		if saved {
			t.Amount = g.Amount
			t.Type = g.Type
		}
		targets = append(targets, t)

		monthly := commission.ToMonthly(t.Amount, t.Type, s.rules)
		view.Goals = append(view.Goals, GoalView{
			UserID:    u.ID,
			Name:      u.Name,
			Role:      u.Role,
			Amount:    money.ToFloat(t.Amount),
			Type:      t.Type,
			Monthly:   money.ToFloat(monthly),
			Daily:     money.ToFloat(commission.ToDaily(monthly, s.rules)),
			IsDefault: !saved,
		})
	}
	view.StoreGoal = money.ToFloat(commission.StoreGoal(targets, s.rules))
	return view, nil
}

// ProgressView is one user's achievement against their monthly target
type ProgressView struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Role          enum.Role `json:"role"`
	Achieved      float64   `json:"achieved"`
	MonthlyTarget float64   `json:"monthly_target"`
	DailyTarget   float64   `json:"daily_target"`
	Percent       float64   `json:"percent"`
}

// GoalProgressView is the store and per-user progress for a month
type GoalProgressView struct {
	Period        string         `json:"period"`
	StoreGoal     float64        `json:"store_goal"`
	StoreAchieved float64        `json:"store_achieved"`
	StorePercent  float64        `json:"store_percent"`
	Users         []ProgressView `json:"users"`
}

// GoalProgress matches each sales user's target with their completed sales
func (s *GoalService) GoalProgress(ctx context.Context, period string) (*GoalProgressView, error) {
	goals, err := s.GetGoals(ctx, period)
	if err != nil {
		return nil, err
	}
	month, _ := time.ParseInLocation(periodLayout, goals.Period, s.now().Location())
	from, to := monthRange(month)

	bySeller, err := s.analyticsRepo.GetSalesBySeller(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sales := make(map[uuid.UUID]int64, len(bySeller))
	for _, r := range bySeller {
		sales[r.SellerID] = r.Total
	}
	storeAchieved, err := s.analyticsRepo.GetRevenue(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}

	targets := make([]commission.Target, 0, len(goals.Goals))
	for _, g := range goals.Goals {
		targets = append(targets, commission.Target{
			UserID: g.UserID, Name: g.Name, Role: g.Role,
			Amount: money.FromFloat(g.Amount), Type: g.Type,
		})
	}

	storeGoal := commission.StoreGoal(targets, s.rules)
	view := &GoalProgressView{
		Period:        goals.Period,
		StoreGoal:     money.ToFloat(storeGoal),
		StoreAchieved: money.ToFloat(storeAchieved),
		StorePercent:  commission.Percent(storeAchieved, storeGoal),
	}
	for _, p := range commission.BuildProgress(targets, sales, s.rules) {
		view.Users = append(view.Users, ProgressView{
			UserID:        p.UserID,
			Name:          p.Name,
			Role:          p.Role,
			Achieved:      money.ToFloat(p.Achieved),
			MonthlyTarget: money.ToFloat(p.MonthlyTarget),
			DailyTarget:   money.ToFloat(p.DailyTarget),
			Percent:       p.Percent,
		})
	}
	return view, nil
}

// InvalidateCurrent drops the cached goals of the current month. Called when
// a user's default goal or role changes.
func (s *GoalService) InvalidateCurrent(ctx context.Context) {
	s.invalidate(ctx, s.now().Format(periodLayout))
}

func (s *GoalService) invalidate(ctx context.Context, period string) {
	if err := s.cache.Delete(ctx, s.cacheKey(period)); err != nil {
		s.log.Warn("failed to invalidate goal cache", zap.String("period", period), zap.Error(err))
	}
}

func (s *GoalService) cacheKey(period string) string {
	return s.cache.GenerateKey("goals", period)
}
