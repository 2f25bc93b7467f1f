package util

const (
	ModeDebug   = "debug"
	ModeRelease = "release"
)

// Request scoped keys.
const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// Redis key prefixes.
const (
	PoolCachePrefix = "exam_prep:diagnostic_pool:"
)
