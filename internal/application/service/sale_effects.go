package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SaleWarning reports a post-sale step that failed. The sale itself is committed.
type SaleWarning struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// SaleStep is one side effect run after the sale row is written.
// Steps are independent: a failing step does not stop the others and
// nothing is compensated.
type SaleStep interface {
	Name() string
	Execute(ctx context.Context) error
}

type saleStepFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (s saleStepFunc) Name() string                      { return s.name }
func (s saleStepFunc) Execute(ctx context.Context) error { return s.fn(ctx) }

func newSaleStep(name string, fn func(ctx context.Context) error) SaleStep {
	return saleStepFunc{name: name, fn: fn}
}

// EffectRunner executes sale steps in order and collects their failures.
type EffectRunner struct {
	log *zap.Logger
}

func NewEffectRunner(log *zap.Logger) *EffectRunner {
	return &EffectRunner{log: log}
}

// Run executes every step. The request context is detached so a client that
// hangs up after the sale is written does not cut the remaining steps short.
func (r *EffectRunner) Run(ctx context.Context, saleID string, steps []SaleStep) []SaleWarning {
	ctx = context.WithoutCancel(ctx)

	var warnings []SaleWarning
	for _, step := range steps {
		if err := step.Execute(ctx); err != nil {
			r.log.Warn("sale side effect failed",
				zap.String("sale_id", saleID),
				zap.String("step", step.Name()),
				zap.Error(err))
			warnings = append(warnings, SaleWarning{Step: step.Name(), Message: err.Error()})
			continue
		}
		r.log.Debug("sale side effect done", zap.String("sale_id", saleID), zap.String("step", step.Name()))
	}
	return warnings
}

// stockShortage lists the items whose stock could not cover the sale
type stockShortage struct {
	names []string
}

func (e *stockShortage) Error() string {
	return fmt.Sprintf("estoque insuficiente para: %s", strings.Join(e.names, ", "))
}
