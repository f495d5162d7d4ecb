package commission_fee

import "math"

type CommissionFee interface {
	// Calculate returns the fee for a fill of quantity units worth notional in quote currency.
	Calculate(notional float64, quantity float64) float64
}

type Broker string

const (
	BrokerPercentage        Broker = "percentage"
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZero              Broker = "zero_commission"
)

// DefaultPercentageRate is the fraction of notional charged by the percentage model.
const DefaultPercentageRate = 0.001

var AllBrokers = []any{
	BrokerPercentage,
	BrokerInteractiveBroker,
	BrokerZero,
}

// GetCommissionFeeHandler returns the fee model for broker. An empty or unknown
// broker gets the percentage model.
func GetCommissionFeeHandler(broker Broker) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewPercentageCommissionFee(DefaultPercentageRate)
	}
}

// PercentageCommissionFee charges a fixed fraction of the absolute notional.
type PercentageCommissionFee struct {
	rate float64
}

func NewPercentageCommissionFee(rate float64) CommissionFee {
	return &PercentageCommissionFee{rate: rate}
}

func (c *PercentageCommissionFee) Calculate(notional float64, quantity float64) float64 {
	return math.Abs(notional) * c.rate
}
