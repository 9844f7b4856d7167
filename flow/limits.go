package flow

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fewlinesco/rampsdk"
)

// LimitError reports a quote above one of the remaining order limits.
type LimitError struct {
	Period string
	Max    decimal.Decimal
	Amount decimal.Decimal
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("Order exceeds %s limit! Max allowed: %s, Quote: %s", e.Period, e.Max, e.Amount)
}

var limitPeriods = []struct {
	key  string
	name string
}{
	{"1", "daily"},
	{"30", "monthly"},
	{"365", "yearly"},
}

// CheckOrderLimits compares the requested fiat amount with the daily,
// monthly and yearly remaining limits.
func (r *Runner) CheckOrderLimits(ctx context.Context, s *Session) error {
	limits, err := r.ramp.OrderLimit(ctx, rampsdk.OrderLimitRequest{
		KYCType:      s.KYCType,
		IsBuyOrSell:  s.Request.IsBuyOrSell,
		FiatCurrency: s.Request.FiatCurrency,
	})
	if err != nil {
		return fmt.Errorf("order limit: %w", err)
	}

	amount := decimal.NewFromFloat(s.Request.FiatAmount)
	for _, p := range limitPeriods {
		remaining, ok := limits.Remaining[p.key]
		if !ok {
			return fmt.Errorf("order limit: no %s remaining limit", p.name)
		}
		limit := decimal.NewFromFloat(remaining)
		if amount.GreaterThan(limit) {
			return &LimitError{Period: p.name, Max: limit, Amount: amount}
		}
	}

	r.logger.Info("order is within limits", zap.String("amount", amount.String()))
	return nil
}
