package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSignal        ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidRange         ErrorCode = 104
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeMissingParameter     ErrorCode = 109

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeSymbolNotFound        ErrorCode = 203
	ErrCodeDuplicateBar          ErrorCode = 204

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound      ErrorCode = 400
	ErrCodeStrategyAlreadyExists ErrorCode = 401
	ErrCodeStrategyConfigError   ErrorCode = 402
	ErrCodeStrategyEvaluation    ErrorCode = 403
	ErrCodeNoActiveStrategies    ErrorCode = 404

	// Inference errors (500-599)
	ErrCodeInferenceFailure  ErrorCode = 500
	ErrCodeInferenceTimeout  ErrorCode = 501
	ErrCodeInferenceResponse ErrorCode = 502

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError  ErrorCode = 602
	ErrCodeBacktestNoDatasource ErrorCode = 608
	ErrCodeBacktestCancelled    ErrorCode = 609
	ErrCodeBarProcessing        ErrorCode = 610

	// Optimization errors (700-799)
	ErrCodeOptimizationCombination ErrorCode = 700
	ErrCodeInvalidParameterRange   ErrorCode = 701
)
