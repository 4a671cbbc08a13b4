// Package commission computes tiered seller commission and normalises sales
// goals between daily and monthly targets.
package commission

import (
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Rules are the commission tiers and the fixed month length
type Rules struct {
	Threshold    int64 // cents; the high tier starts strictly above it
	LowRate      float64
	HighRate     float64
	DaysPerMonth int
}

func DefaultRules() Rules {
	return Rules{
		Threshold:    300000,
		LowRate:      0.01,
		HighRate:     0.02,
		DaysPerMonth: 30,
	}
}

// Tier is the commission outcome for a sales base
type Tier struct {
	Base       int64   `json:"base"`
	Rate       float64 `json:"rate"`
	Commission int64   `json:"commission"`
	HighTier   bool    `json:"high_tier"`
	Shortfall  int64   `json:"shortfall"` // missing to reach the high tier
}

// Calculate applies the tiered rate to base. Exactly the threshold stays in
// the low tier.
func Calculate(base int64, rules Rules) Tier {
	t := Tier{Base: base, Rate: rules.LowRate}
	if base > rules.Threshold {
		t.Rate = rules.HighRate
		t.HighTier = true
	}
	t.Commission = money.Rate(base, t.Rate)
	if base < rules.Threshold {
		t.Shortfall = rules.Threshold - base
	}
	return t
}

// ToMonthly converts a target to its monthly value
func ToMonthly(amount int64, goalType enum.GoalType, rules Rules) int64 {
	if goalType == enum.GoalDaily {
		return amount * int64(rules.DaysPerMonth)
	}
	return amount
}

// ToDaily converts a monthly target to a daily one, rounded to the cent
func ToDaily(monthly int64, rules Rules) int64 {
	if rules.DaysPerMonth <= 0 {
		return monthly
	}
	return decimal.NewFromInt(monthly).
		Div(decimal.NewFromInt(int64(rules.DaysPerMonth))).
		Round(0).
		IntPart()
}

// Target is one user's goal
type Target struct {
	UserID uuid.UUID
	Name   string
	Role   enum.Role
	Amount int64
	Type   enum.GoalType
}

// StoreGoal sums the monthly targets of every sales user
func StoreGoal(targets []Target, rules Rules) int64 {
	var total int64
	for _, t := range targets {
		if !t.Role.IsSalesRole() {
			continue
		}
		total += ToMonthly(t.Amount, t.Type, rules)
	}
	return total
}

// Percent of target achieved, rounded to one decimal. A zero target gives 0.
func Percent(achieved, target int64) float64 {
	if target <= 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(achieved).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(target)).
		Round(1).
		Float64()
	return f
}

// Progress of one user against their monthly target
type Progress struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Role          enum.Role `json:"role"`
	Achieved      int64     `json:"achieved"`
	MonthlyTarget int64     `json:"monthly_target"`
	DailyTarget   int64     `json:"daily_target"`
	Percent       float64   `json:"percent"`
}

// BuildProgress matches each sales user's target with their month sales.
func BuildProgress(targets []Target, salesByUser map[uuid.UUID]int64, rules Rules) []Progress {
	out := make([]Progress, 0, len(targets))
	for _, t := range targets {
		if !t.Role.IsSalesRole() {
			continue
		}
		monthly := ToMonthly(t.Amount, t.Type, rules)
		achieved := salesByUser[t.UserID]
		out = append(out, Progress{
			UserID:        t.UserID,
			Name:          t.Name,
			Role:          t.Role,
			Achieved:      achieved,
			MonthlyTarget: monthly,
			DailyTarget:   ToDaily(monthly, rules),
			Percent:       Percent(achieved, monthly),
		})
	}
	return out
}
