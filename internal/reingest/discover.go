package reingest

import (
	"context"

	"github.com/SirClappington/reingest/internal/storage"
)

// Discover runs sql on conn and returns the ids in the order the database
// produced them.
func Discover(ctx context.Context, conn storage.Conn, sql string, log Logger) ([]int64, error) {
	if conn == nil {
		return nil, &QueryError{SQL: sql, Err: storage.ErrNotConnected}
	}
	ids, err := conn.QueryIDs(ctx, sql)
	if err != nil {
		return nil, &QueryError{SQL: sql, Err: err}
	}
	log.Infow("Found record IDs to process", "count", len(ids))
	return ids, nil
}
