package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/config"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/internal/version"
	"gopkg.in/yaml.v3"
)

const (
	backtestSchemaName = "backtest-config.json"
	backtestSampleName = "backtest-config.yaml"
	appSchemaName      = "argo-config.json"
	appSampleName      = "argo-config.yaml"
)

// writeSchema writes schema to dir/schemaName and, if missing, a sample YAML
// file pointing at it.
func writeSchema(dir, schemaName, sampleName, schema string, sample any) {
	schemaPath := filepath.Join(dir, schemaName)
	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		log.Fatalf("Failed to write schema to file: %v", err)
	}

	samplePath := filepath.Join(dir, sampleName)
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(sample)
		if err != nil {
			log.Fatalf("Failed to marshal sample config to yaml: %v", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)
		if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
			log.Fatalf("Failed to write sample config to file: %v", err)
		}

		log.Printf("Sample config successfully generated at %s", samplePath)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)
}

func main() {
	dir := "./config"
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	start := time.Date(time.Now().Year()-1, 1, 1, 0, 0, 0, 0, time.UTC)
	backtestConfig := types.BacktestConfig{
		Symbol:         "AAPL",
		StartDate:      start,
		EndDate:        start.AddDate(1, 0, 0),
		InitialCapital: 10000,
	}.WithDefaults()

	backtestSchema, err := backtestConfig.GenerateSchemaJSON()
	if err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	writeSchema(dir, backtestSchemaName, backtestSampleName, backtestSchema, backtestConfig)

	appConfig := config.Default()
	appConfig.Version = version.GetVersion()

	appSchema, err := appConfig.GenerateSchemaJSON()
	if err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	writeSchema(dir, appSchemaName, appSampleName, appSchema, appConfig)
}
