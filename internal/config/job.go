package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/SirClappington/reingest/internal/domain"
)

// AddJobFlags registers the flags read by JobFromFlags.
func AddJobFlags(fs *pflag.FlagSet) {
	fs.Int("max-threads", domain.DefaultWorkers, "Max worker threads")
	fs.Int("batch-size", domain.DefaultBatchSize, "Number of records to process per batch")
	fs.Int64("min-id", 0, "Only process records whose id is greater than this")
	fs.Int64("max-id", 0, "Only process records whose id is less than this")
	fs.StringArray("attr", nil, "Reingest a specific record attribute; repeatable")
	fs.Bool("do-browse", false, "Update browse entries")
	fs.Bool("do-attrs", false, "Update record attributes")
	fs.Bool("do-search", false, "Update search indexes")
	fs.Bool("do-facets", false, "Update facets")
	fs.Bool("do-display", false, "Update display fields")
	fs.Bool("newest-first", false, "Update records newest to oldest")
}

// JobFromFlags builds a validated job configuration. Id bounds are only set
// when the flag was given.
func JobFromFlags(fs *pflag.FlagSet) (domain.JobConfig, error) {
	var (
		cfg domain.JobConfig
		err error
	)
	getInt := func(name string) int {
		if err != nil {
			return 0
		}
		var v int
		v, err = fs.GetInt(name)
		return v
	}
	getBool := func(name string) bool {
		if err != nil {
			return false
		}
		var v bool
		v, err = fs.GetBool(name)
		return v
	}
	getBound := func(name string) *int64 {
		if err != nil || !fs.Changed(name) {
			return nil
		}
		var v int64
		v, err = fs.GetInt64(name)
		return &v
	}

	cfg.Workers = getInt("max-threads")
	cfg.BatchSize = getInt("batch-size")
	cfg.MinID = getBound("min-id")
	cfg.MaxID = getBound("max-id")
	cfg.NewestFirst = getBool("newest-first")
	cfg.Browse = getBool("do-browse")
	cfg.Attributes = getBool("do-attrs")
	cfg.Search = getBool("do-search")
	cfg.Facets = getBool("do-facets")
	cfg.Display = getBool("do-display")
	if err != nil {
		return domain.JobConfig{}, errors.Wrap(err, "reading job flags")
	}

	if cfg.Attrs, err = fs.GetStringArray("attr"); err != nil {
		return domain.JobConfig{}, errors.Wrap(err, "reading --attr")
	}
	if err := cfg.Validate(); err != nil {
		return domain.JobConfig{}, err
	}
	return cfg, nil
}
