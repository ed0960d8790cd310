package domain

import (
	"fmt"
	"time"
)

const (
	HealthStatusOK          HealthStatus = "ok"
	HealthStatusTimeout     HealthStatus = "timeout"
	HealthStatusUnreachable HealthStatus = "unreachable"
	HealthStatusUnknown     HealthStatus = "unknown"
)

// HealthStatus represents the gateway's view of an agent's availability.
type HealthStatus string

// Duration marshals as a human-readable string (e.g. "12ms") in API responses.
type Duration time.Duration

func (d *Duration) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	s := fmt.Sprintf(`"%s"`, time.Duration(*d).String())
	return []byte(s), nil
}

// ServerHealth tracks the reachability state of one monitored server's agent.
type ServerHealth struct {
	ID             string       `json:"id"`
	Status         HealthStatus `json:"status"`
	Latency        *Duration    `json:"latency"`
	LastChecked    *time.Time   `json:"last_checked"`
	LastSuccessful *time.Time   `json:"last_successful"`
}
