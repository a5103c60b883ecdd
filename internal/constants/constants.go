package constants

import "time"

const (
	PlayerCacheTTL = 5 * time.Minute
)

const (
	ExternalAPITimeout  = 10 * time.Second
	ReferenceAPITimeout = 15 * time.Second
	RequestTimeout      = 60 * time.Second
	CacheOpTimeout      = 2 * time.Second
)

const (
	DefaultMatchCount       = 20
	MaxMatchCount           = 100
	DefaultFetchConcurrency = 10
	MaxFetchConcurrency     = 100
)

const (
	// depth bound for walking reference documents
	MaxReferenceDepth = 32
)

const (
	ShutdownTimeout = 5 * time.Second
)
