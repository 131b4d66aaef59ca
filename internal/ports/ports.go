package ports

import "context"

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// StateStore persists the application's JSON state records under fixed keys.
// A missing key loads as the caller's zero value, never an error.
type StateStore interface {
	Load(ctx context.Context, key string, out any) error
	Save(ctx context.Context, key string, data any) error
	DeleteAll(ctx context.Context, keys ...string) error
}
