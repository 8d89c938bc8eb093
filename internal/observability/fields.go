package observability

import "go.uber.org/zap"

// Field constructor aliases so call sites don't need a direct zap import.
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Bool     = zap.Bool
	Float64  = zap.Float64
	Duration = zap.Duration
	Error    = zap.Error
)
