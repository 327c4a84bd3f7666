package execution

import "github.com/shopspring/decimal"

// CommissionModel prices the commission charged on one execution.
type CommissionModel interface {
	Calculate(quantity, price decimal.Decimal) decimal.Decimal
}

var (
	minCommission = decimal.NewFromInt(1)
	perShareRate  = decimal.NewFromFloat(0.005)
	costCapRate   = decimal.NewFromFloat(0.5)
)

// StandardCommission models a per-share broker fee: half a cent per share
// with a one dollar minimum, capped at half the trade value.
type StandardCommission struct{}

func (StandardCommission) Calculate(quantity, price decimal.Decimal) decimal.Decimal {
	fee := decimal.Max(minCommission, perShareRate.Mul(quantity))
	cap := costCapRate.Mul(price).Mul(quantity)
	return decimal.Min(cap, fee)
}

// ZeroCommission charges nothing. Useful for frictionless simulations and
// fund-type instruments with no per-trade cost.
type ZeroCommission struct{}

func (ZeroCommission) Calculate(quantity, price decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}
