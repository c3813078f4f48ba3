package query

import (
	"strconv"
	"strings"

	"github.com/SirClappington/reingest/internal/domain"
)

const RecordTable = "biblio.record_entry"

// DiscoverySQL returns the query selecting the ids of every live record
// within cfg's bounds. Bounds are integers, nothing else is interpolated.
func DiscoverySQL(cfg domain.JobConfig) string {
	var b strings.Builder
	b.WriteString("SELECT id FROM ")
	b.WriteString(RecordTable)
	b.WriteString(" WHERE NOT deleted")

	if cfg.MinID != nil {
		b.WriteString(" AND id > ")
		b.WriteString(strconv.FormatInt(*cfg.MinID, 10))
	}
	if cfg.MaxID != nil && *cfg.MaxID > 0 {
		b.WriteString(" AND id < ")
		b.WriteString(strconv.FormatInt(*cfg.MaxID, 10))
	}

	if cfg.NewestFirst {
		b.WriteString(" ORDER BY create_date DESC, id DESC")
	} else {
		b.WriteString(" ORDER BY id")
	}
	return b.String()
}
