package types

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// StrategyTechnicalAnalysis is the registry name of the indicator-vote strategy.
const StrategyTechnicalAnalysis = "technical_analysis"

// BacktestConfig describes one simulation run.
type BacktestConfig struct {
	Symbol         string             `yaml:"symbol" json:"symbol" validate:"required" jsonschema:"title=Symbol,description=Symbol whose bar series is simulated"`
	StrategyLabel  string             `yaml:"strategy_label" json:"strategy_label" jsonschema:"title=Strategy Label,description=Label stamped on every recorded trade"`
	Strategies     []string           `yaml:"strategies" json:"strategies" validate:"omitempty,dive,required" jsonschema:"title=Strategies,description=Registered strategy names activated for the run"`
	StartDate      time.Time          `yaml:"start_date" json:"start_date" validate:"required" jsonschema:"title=Start Date"`
	EndDate        time.Time          `yaml:"end_date" json:"end_date" validate:"required,gtfield=StartDate" jsonschema:"title=End Date"`
	InitialCapital float64            `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital of the ledger,minimum=0"`
	Parameters     StrategyParameters `yaml:"parameters" json:"parameters" jsonschema:"title=Parameters"`
	Broker         string             `yaml:"broker" json:"broker" validate:"omitempty,oneof=percentage interactive_broker zero_commission" jsonschema:"title=Broker,description=Commission model,enum=percentage,enum=interactive_broker,enum=zero_commission"`
}

// WithDefaults fills unset optional fields.
func (c BacktestConfig) WithDefaults() BacktestConfig {
	if len(c.Strategies) == 0 {
		c.Strategies = []string{StrategyTechnicalAnalysis}
	}

	if c.StrategyLabel == "" {
		c.StrategyLabel = c.Strategies[0]
	}

	c.Parameters = c.Parameters.WithDefaults()

	if c.Broker == "" {
		c.Broker = "percentage"
	}

	return c
}

// Clone returns a deep copy of the config.
func (c BacktestConfig) Clone() BacktestConfig {
	clone := c
	clone.Strategies = append([]string(nil), c.Strategies...)
	clone.Parameters = c.Parameters.Clone()

	return clone
}

// Validate checks the config and its parameters.
func (c *BacktestConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	return nil
}

// GenerateSchemaJSON returns the JSON schema of BacktestConfig.
func (c *BacktestConfig) GenerateSchemaJSON() (string, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{
					Type:        "string",
					Description: "Go duration such as 5s or 1m30s",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for one backtest run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
