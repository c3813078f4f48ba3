package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/SirClappington/reingest/internal/config"
)

var ErrNotConnected = errors.New("database connection not established")

// Conn is a single database session. It must not be used by more than one
// goroutine at a time.
type Conn interface {
	// QueryIDs runs sql and returns the first column of every row.
	QueryIDs(ctx context.Context, sql string) ([]int64, error)
	// Prepare registers sql under name for use with Exec.
	Prepare(ctx context.Context, name, sql string) error
	// Exec runs the prepared statement name, discarding any rows.
	Exec(ctx context.Context, name string, args ...any) error
	Close(ctx context.Context) error
}

// Connector opens new sessions.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

// Dialer opens pgx connections from resolved connection parameters.
type Dialer struct {
	Params config.ConnParams
}

func NewDialer(p config.ConnParams) *Dialer { return &Dialer{Params: p} }

func (d *Dialer) Connect(ctx context.Context) (Conn, error) {
	cfg, err := pgx.ParseConfig(d.Params.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "parsing connection string")
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s:%d/%s", d.Params.Host, d.Params.Port, d.Params.Database)
	}
	return &Store{db: conn}, nil
}

// Store wraps one live pgx connection.
type Store struct{ db *pgx.Conn }

func New(db *pgx.Conn) *Store { return &Store{db} }

func (s *Store) live() error {
	if s == nil || s.db == nil || s.db.IsClosed() {
		return ErrNotConnected
	}
	return nil
}

func (s *Store) QueryIDs(ctx context.Context, sql string) ([]int64, error) {
	if err := s.live(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) Prepare(ctx context.Context, name, sql string) error {
	if err := s.live(); err != nil {
		return err
	}
	_, err := s.db.Prepare(ctx, name, sql)
	return err
}

func (s *Store) Exec(ctx context.Context, name string, args ...any) error {
	if err := s.live(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, name, args...)
	return err
}

// Close drops the connection. Closing an already closed Store is a no-op.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close(ctx)
	s.db = nil
	return err
}
