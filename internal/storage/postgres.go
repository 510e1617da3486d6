package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/campustrack/internal/config"
	"github.com/your-org/campustrack/internal/models"
	"github.com/your-org/campustrack/internal/tracking"
)

// PostgresStore reads the tracker's persons and cameras tables. It never writes.
//
//	persons(id text primary key, camera_id text, first_seen text, last_seen text,
//	        duration_sec int, total_cameras int, status text, confidence int, image_ref text)
//	cameras(id text primary key, status text, occupancy int, last_activity text)
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Load reads both tables inside one read-only repeatable-read transaction so
// persons and cameras describe the same moment.
func (s *PostgresStore) Load(ctx context.Context) (*models.Snapshot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, &tracking.TransportError{Op: "begin snapshot tx", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	persons, err := listPersons(ctx, tx)
	if err != nil {
		return nil, &tracking.TransportError{Op: "load persons", Err: err}
	}
	cameras, err := listCameras(ctx, tx)
	if err != nil {
		return nil, &tracking.TransportError{Op: "load cameras", Err: err}
	}

	return &models.Snapshot{
		Persons:  persons,
		Cameras:  cameras,
		LoadedAt: time.Now().UTC(),
	}, nil
}

func listPersons(ctx context.Context, tx pgx.Tx) ([]models.PersonRecord, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, image_ref, camera_id, first_seen, last_seen, duration_sec, total_cameras, status, confidence
		 FROM persons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	persons := []models.PersonRecord{}
	for rows.Next() {
		var p models.PersonRecord
		if err := rows.Scan(&p.ID, &p.Image, &p.Camera, &p.FirstSeen, &p.LastSeen,
			&p.Duration, &p.TotalCameras, &p.Status, &p.Confidence); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func listCameras(ctx context.Context, tx pgx.Tx) ([]models.CameraRecord, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, status, occupancy, last_activity FROM cameras ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	defer rows.Close()

	cameras := []models.CameraRecord{}
	for rows.Next() {
		var c models.CameraRecord
		if err := rows.Scan(&c.ID, &c.Status, &c.Occupancy, &c.LastActivity); err != nil {
			return nil, fmt.Errorf("scan camera: %w", err)
		}
		cameras = append(cameras, c)
	}
	return cameras, rows.Err()
}
