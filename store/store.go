// Package store persists contract deployment records in PostgreSQL so
// deployed contracts can be rebound across process restarts.
package store

import (
	"context"
	"time"
)

// Deployment records a contract deployed through this library.
type Deployment struct {
	ContractID string
	WasmHash   string
	Deployer   string
	Network    string
	TxHash     string
	DeployedAt time.Time
}

// Store defines the interface for deployment persistence.
type Store interface {
	SaveDeployment(ctx context.Context, deployment *Deployment) error
	GetDeployment(ctx context.Context, contractID string) (*Deployment, error)
	ListDeployments(ctx context.Context, network string, limit, offset int) ([]*Deployment, error)
	DeleteDeployment(ctx context.Context, contractID string) error

	Ping(ctx context.Context) error
	Close() error
}
