package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no deployment exists for a contract ID.
var ErrNotFound = errors.New("deployment not found")

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by a pgx connection pool and
// ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS deployments (
			contract_id TEXT PRIMARY KEY,
			wasm_hash   TEXT NOT NULL,
			deployer    TEXT NOT NULL,
			network     TEXT NOT NULL,
			tx_hash     TEXT NOT NULL DEFAULT '',
			deployed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_deployments_network ON deployments (network);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveDeployment records a deployment. Saving the same contract ID twice
// is a no-op.
func (s *PostgresStore) SaveDeployment(ctx context.Context, deployment *Deployment) error {
	query := `
		INSERT INTO deployments (
			contract_id, wasm_hash, deployer, network, tx_hash, deployed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (contract_id) DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query,
		deployment.ContractID,
		deployment.WasmHash,
		deployment.Deployer,
		deployment.Network,
		deployment.TxHash,
		deployment.DeployedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save deployment: %w", err)
	}

	return nil
}

// GetDeployment retrieves a deployment by contract ID.
func (s *PostgresStore) GetDeployment(ctx context.Context, contractID string) (*Deployment, error) {
	query := `
		SELECT contract_id, wasm_hash, deployer, network, tx_hash, deployed_at
		FROM deployments
		WHERE contract_id = $1
	`

	var deployment Deployment
	err := s.pool.QueryRow(ctx, query, contractID).Scan(
		&deployment.ContractID,
		&deployment.WasmHash,
		&deployment.Deployer,
		&deployment.Network,
		&deployment.TxHash,
		&deployment.DeployedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, contractID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}

	return &deployment, nil
}

// ListDeployments lists deployments on a network, newest first.
func (s *PostgresStore) ListDeployments(ctx context.Context, network string, limit, offset int) ([]*Deployment, error) {
	query := `
		SELECT contract_id, wasm_hash, deployer, network, tx_hash, deployed_at
		FROM deployments
		WHERE network = $1
		ORDER BY deployed_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, network, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	defer rows.Close()

	var deployments []*Deployment
	for rows.Next() {
		var deployment Deployment
		err := rows.Scan(
			&deployment.ContractID,
			&deployment.WasmHash,
			&deployment.Deployer,
			&deployment.Network,
			&deployment.TxHash,
			&deployment.DeployedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deployment: %w", err)
		}
		deployments = append(deployments, &deployment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deployments: %w", err)
	}

	return deployments, nil
}

// DeleteDeployment removes a deployment record.
func (s *PostgresStore) DeleteDeployment(ctx context.Context, contractID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM deployments WHERE contract_id = $1`, contractID)
	if err != nil {
		return fmt.Errorf("failed to delete deployment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, contractID)
	}
	return nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
