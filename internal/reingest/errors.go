package reingest

import "github.com/pkg/errors"

// QueryError reports a discovery query that could not be run.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	if e.Err == nil {
		return "discovery query failed"
	}
	return errors.Wrap(e.Err, "discovery query failed").Error()
}

func (e *QueryError) Unwrap() error { return e.Err }
