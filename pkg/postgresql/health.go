package postgresql

import (
	"context"
	"fmt"
	"time"
)

// HealthCheck describes the outcome of a database health check.
type HealthCheck struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	ActiveConns  int32         `json:"active_connections"`
	IdleConns    int32         `json:"idle_connections"`
	MaxConns     int32         `json:"max_connections"`
	DatabaseName string        `json:"database_name"`
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Error        string        `json:"error,omitempty"`
	Version      string        `json:"version,omitempty"`
}

// CheckHealth verifies connectivity and query execution on the given client.
func CheckHealth(ctx context.Context, db PostgreSQLClient) *HealthCheck {
	start := time.Now()

	health := &HealthCheck{
		DatabaseName: db.DatabaseName(),
		Host:         db.Host(),
		Port:         db.Port(),
	}

	stats := db.Stats()
	health.ActiveConns = stats.AcquiredConns()
	health.IdleConns = stats.IdleConns()
	health.MaxConns = stats.MaxConns()

	if err := db.Ping(ctx); err != nil {
		health.Status = "unhealthy"
		health.Error = fmt.Sprintf("ping failed: %v", err)
		health.ResponseTime = time.Since(start)
		return health
	}

	var version string
	if err := db.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		health.Status = "unhealthy"
		health.Error = fmt.Sprintf("version query failed: %v", err)
		health.ResponseTime = time.Since(start)
		return health
	}

	health.Version = version
	health.Status = "healthy"
	health.ResponseTime = time.Since(start)

	return health
}

// IsHealthy reports whether the database passes the health check.
func IsHealthy(ctx context.Context, db PostgreSQLClient) bool {
	return CheckHealth(ctx, db).Status == "healthy"
}
