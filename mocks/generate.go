package mocks

//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-consensus/internal/strategy Strategy
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1/datasource DataSource
//go:generate mockgen -destination=./mock_inference.go -package=mocks github.com/rxtech-lab/argo-consensus/internal/inference Client
//go:generate mockgen -destination=./mock_engine.go -package=mocks github.com/rxtech-lab/argo-consensus/internal/backtest/engine Engine
