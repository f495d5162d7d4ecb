// Package config loads the application configuration from YAML, .env files
// and ARGO_* environment variables.
package config

import (
	"encoding/json"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-consensus/internal/inference"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/version"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the loaded file.
const (
	EnvInferenceURL    = "ARGO_INFERENCE_URL"
	EnvInferenceAPIKey = "ARGO_INFERENCE_API_KEY"
	EnvLogLevel        = "ARGO_LOG_LEVEL"
	EnvWorkers         = "ARGO_WORKERS"
)

// Inference providers.
const (
	ProviderSimulated = "simulated"
	ProviderHTTP      = "http"
)

type InferenceConfig struct {
	Provider          string        `yaml:"provider" json:"provider" validate:"oneof=simulated http" jsonschema:"title=Provider,enum=simulated,enum=http,default=simulated"`
	BaseURL           string        `yaml:"base_url" json:"base_url" validate:"omitempty,url" jsonschema:"title=Base URL,description=Root URL of the inference service"`
	APIKey            string        `yaml:"api_key" json:"api_key" jsonschema:"title=API Key"`
	Model             string        `yaml:"model" json:"model" jsonschema:"title=Model"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout" validate:"gte=0" jsonschema:"title=Timeout,description=Timeout of one HTTP request"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second" validate:"gte=0" jsonschema:"title=Requests Per Second,description=Zero disables rate limiting"`
	Burst             int           `yaml:"burst" json:"burst" validate:"gte=0" jsonschema:"title=Burst"`
	FailureThreshold  uint32        `yaml:"failure_threshold" json:"failure_threshold" jsonschema:"title=Failure Threshold,description=Consecutive failures that open the circuit"`
	OpenTimeout       time.Duration `yaml:"open_timeout" json:"open_timeout" validate:"gte=0" jsonschema:"title=Open Timeout,description=Time the circuit stays open"`
}

type DataConfig struct {
	// Path is a parquet or CSV file with market data.
	Path  string `yaml:"path" json:"path" jsonschema:"title=Path,description=Parquet or CSV file with market data"`
	Cache bool   `yaml:"cache" json:"cache" jsonschema:"title=Cache,description=Keep loaded series in memory,default=true"`
}

type Config struct {
	// Version is the build version or constraint the file was written for.
	Version    string          `yaml:"version" json:"version" jsonschema:"title=Version,description=Version or constraint of argo-consensus the file targets"`
	LogLevel   string          `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Workers    int             `yaml:"workers" json:"workers" validate:"gte=0" jsonschema:"title=Workers,description=Concurrent optimizer runs; zero uses every CPU"`
	Seed       int64           `yaml:"seed" json:"seed" jsonschema:"title=Seed,description=Seed of the simulated inference and discrepancy sources"`
	ResultsDir string          `yaml:"results_dir" json:"results_dir" jsonschema:"title=Results Directory"`
	Data       DataConfig      `yaml:"data" json:"data" jsonschema:"title=Data"`
	Inference  InferenceConfig `yaml:"inference" json:"inference" jsonschema:"title=Inference"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Workers:    0,
		Seed:       42,
		ResultsDir: "results",
		Data: DataConfig{
			Cache: true,
		},
		Inference: InferenceConfig{
			Provider:         ProviderSimulated,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
		},
	}
}

// Load reads path over the defaults, loads envFiles (or ./.env when none are
// given) and applies ARGO_* overrides. An empty path skips the YAML file.
func Load(path string, envFiles ...string) (Config, error) {
	config := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := yaml.Unmarshal(content, &config); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
		}

		if err := version.CheckCompatibility(version.GetVersion(), config.Version); err != nil {
			return Config{}, err
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return Config{}, err
	}

	if err := config.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}

		files = []string{".env"}
	}

	if err := godotenv.Load(files...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to load env file", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if val := os.Getenv(EnvInferenceURL); val != "" {
		c.Inference.BaseURL = val
		c.Inference.Provider = ProviderHTTP
	}

	if val := os.Getenv(EnvInferenceAPIKey); val != "" {
		c.Inference.APIKey = val
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv(EnvWorkers); val != "" {
		workers, err := strconv.Atoi(val)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "%s must be an integer", EnvWorkers)
		}

		c.Workers = workers
	}

	return nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.Inference.Provider == ProviderHTTP && c.Inference.BaseURL == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, "inference base_url is required for the http provider")
	}

	return nil
}

// InferenceOptions converts the inference section for inference.NewHTTPClient.
func (c *Config) InferenceOptions(log *logger.Logger) inference.HTTPClientOptions {
	return inference.HTTPClientOptions{
		BaseURL:           c.Inference.BaseURL,
		APIKey:            c.Inference.APIKey,
		Model:             c.Inference.Model,
		Timeout:           c.Inference.Timeout,
		RequestsPerSecond: c.Inference.RequestsPerSecond,
		Burst:             c.Inference.Burst,
		FailureThreshold:  c.Inference.FailureThreshold,
		OpenTimeout:       c.Inference.OpenTimeout,
		Logger:            log,
	}
}

// GenerateSchemaJSON returns the JSON schema of Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
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
	schema.Title = "argo-consensus-config"

	content, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(content), nil
}
