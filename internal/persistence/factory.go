package persistence

// Backend names a snapshot storage implementation.
type Backend string

const (
	// BackendMemory keeps snapshots in process memory.
	BackendMemory Backend = "memory"
	// BackendSQLite stores snapshots in a SQLite database file.
	BackendSQLite Backend = "sqlite"
	// BackendRedis stores snapshots in Redis.
	BackendRedis Backend = "redis"
)

// Valid reports whether the backend names a known implementation.
func (b Backend) Valid() bool {
	switch b {
	case BackendMemory, BackendSQLite, BackendRedis:
		return true
	}
	return false
}
