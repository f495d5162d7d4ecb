package types

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// Parameter names accepted by StrategyParameters.Set.
const (
	ParamRiskPerTrade  = "riskPerTrade"
	ParamMaxPositions  = "maxPositions"
	ParamRSIPeriod     = "rsiPeriod"
	ParamRSIOverbought = "rsiOverbought"
	ParamRSIOversold   = "rsiOversold"
	ParamMACDFast      = "macdFast"
	ParamMACDSlow      = "macdSlow"
	ParamMACDSignal    = "macdSignal"
	ParamSMAShort      = "smaShort"
	ParamSMALong       = "smaLong"
	ParamATRPeriod     = "atrPeriod"
)

// StrategyParameters configures a strategy instance. It is immutable during a run;
// the optimizer produces a fresh copy per combination.
type StrategyParameters struct {
	Timeframe        string             `yaml:"timeframe" json:"timeframe" jsonschema:"title=Timeframe,description=Bar interval label such as 1m or 1d"`
	RiskPerTrade     float64            `yaml:"risk_per_trade" json:"risk_per_trade" validate:"gt=0,lte=100" jsonschema:"title=Risk Per Trade,description=Percent of current capital risked per trade,minimum=0,maximum=100"`
	MaxPositions     int                `yaml:"max_positions" json:"max_positions" validate:"gte=1" jsonschema:"title=Max Positions,minimum=1"`
	RSIPeriod        int                `yaml:"rsi_period" json:"rsi_period" validate:"gt=0" jsonschema:"title=RSI Period,minimum=1"`
	RSIOverbought    float64            `yaml:"rsi_overbought" json:"rsi_overbought" validate:"gt=0,lte=100" jsonschema:"title=RSI Overbought"`
	RSIOversold      float64            `yaml:"rsi_oversold" json:"rsi_oversold" validate:"gte=0,ltfield=RSIOverbought" jsonschema:"title=RSI Oversold"`
	MACDFast         int                `yaml:"macd_fast" json:"macd_fast" validate:"gt=0,ltfield=MACDSlow" jsonschema:"title=MACD Fast Period,minimum=1"`
	MACDSlow         int                `yaml:"macd_slow" json:"macd_slow" validate:"gt=0" jsonschema:"title=MACD Slow Period,minimum=1"`
	MACDSignal       int                `yaml:"macd_signal" json:"macd_signal" validate:"gt=0" jsonschema:"title=MACD Signal Period,minimum=1"`
	SMAShort         int                `yaml:"sma_short" json:"sma_short" validate:"gt=0" jsonschema:"title=Short SMA Period,minimum=1"`
	SMALong          int                `yaml:"sma_long" json:"sma_long" validate:"gt=0" jsonschema:"title=Long SMA Period,minimum=1"`
	ATRPeriod        int                `yaml:"atr_period" json:"atr_period" validate:"gt=0" jsonschema:"title=ATR Period,minimum=1"`
	InferenceTimeout time.Duration      `yaml:"inference_timeout" json:"inference_timeout" validate:"gt=0" jsonschema:"title=Inference Timeout,description=Upper bound for one inference call"`
	Custom           map[string]float64 `yaml:"custom,omitempty" json:"custom,omitempty" jsonschema:"title=Custom,description=Named values not recognised by the built-in strategies"`
}

// DefaultStrategyParameters returns the parameters used when a config leaves them unset.
func DefaultStrategyParameters() StrategyParameters {
	return StrategyParameters{
		Timeframe:        "1d",
		RiskPerTrade:     1.0,
		MaxPositions:     1,
		RSIPeriod:        14,
		RSIOverbought:    70,
		RSIOversold:      30,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		SMAShort:         10,
		SMALong:          20,
		ATRPeriod:        14,
		InferenceTimeout: 5 * time.Second,
		Custom:           nil,
	}
}

// WithDefaults fills every zero-valued field from DefaultStrategyParameters.
// Custom is kept as is.
func (p StrategyParameters) WithDefaults() StrategyParameters {
	d := DefaultStrategyParameters()

	if p.Timeframe == "" {
		p.Timeframe = d.Timeframe
	}

	if p.RiskPerTrade == 0 {
		p.RiskPerTrade = d.RiskPerTrade
	}

	if p.MaxPositions == 0 {
		p.MaxPositions = d.MaxPositions
	}

	if p.RSIPeriod == 0 {
		p.RSIPeriod = d.RSIPeriod
	}

	if p.RSIOverbought == 0 {
		p.RSIOverbought = d.RSIOverbought
	}

	if p.RSIOversold == 0 {
		p.RSIOversold = d.RSIOversold
	}

	if p.MACDFast == 0 {
		p.MACDFast = d.MACDFast
	}

	if p.MACDSlow == 0 {
		p.MACDSlow = d.MACDSlow
	}

	if p.MACDSignal == 0 {
		p.MACDSignal = d.MACDSignal
	}

	if p.SMAShort == 0 {
		p.SMAShort = d.SMAShort
	}

	if p.SMALong == 0 {
		p.SMALong = d.SMALong
	}

	if p.ATRPeriod == 0 {
		p.ATRPeriod = d.ATRPeriod
	}

	if p.InferenceTimeout == 0 {
		p.InferenceTimeout = d.InferenceTimeout
	}

	return p
}

// Clone returns a deep copy.
func (p StrategyParameters) Clone() StrategyParameters {
	clone := p
	if p.Custom != nil {
		clone.Custom = make(map[string]float64, len(p.Custom))
		for k, v := range p.Custom {
			clone.Custom[k] = v
		}
	}

	return clone
}

// Set applies a named numeric value. Integer fields are rounded to the nearest integer.
// Names that no built-in field recognises are stored in Custom.
func (p *StrategyParameters) Set(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "parameter %s must be finite, got %v", name, value)
	}

	rounded := int(math.Round(value))

	switch name {
	case ParamRiskPerTrade:
		p.RiskPerTrade = value
	case ParamMaxPositions:
		p.MaxPositions = rounded
	case ParamRSIPeriod:
		p.RSIPeriod = rounded
	case ParamRSIOverbought:
		p.RSIOverbought = value
	case ParamRSIOversold:
		p.RSIOversold = value
	case ParamMACDFast:
		p.MACDFast = rounded
	case ParamMACDSlow:
		p.MACDSlow = rounded
	case ParamMACDSignal:
		p.MACDSignal = rounded
	case ParamSMAShort:
		p.SMAShort = rounded
	case ParamSMALong:
		p.SMALong = rounded
	case ParamATRPeriod:
		p.ATRPeriod = rounded
	case "":
		return errors.New(errors.ErrCodeMissingParameter, "parameter name must not be empty")
	default:
		if p.Custom == nil {
			p.Custom = make(map[string]float64)
		}

		p.Custom[name] = value
	}

	return nil
}

// Validate checks every field against its constraints.
func (p *StrategyParameters) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy parameters", err)
	}

	return nil
}
