package reingest

import (
	"fmt"

	"github.com/SirClappington/reingest/internal/domain"
)

const (
	PhaseBrowse     = "browse"
	PhaseAttributes = "attributes"
	PhaseSearch     = "search"
	PhaseFacets     = "facets"
	PhaseDisplay    = "display"
)

const (
	fullAttrSQL = `
		SELECT metabib.reingest_record_attributes($1)
		FROM biblio.record_entry
		WHERE id = $2`

	scopedAttrSQL = `
		SELECT metabib.reingest_record_attributes($1, $3)
		FROM biblio.record_entry
		WHERE id = $2`
)

// Arguments: bib id, skip_facet, skip_display, skip_browse, skip_search.
const fieldEntrySQL = `
		SELECT metabib.reingest_metabib_field_entries($1, %s)
		FROM biblio.record_entry
		WHERE id = $2`

// Statement is a prepared call run once per record.
type Statement struct {
	Name string
	SQL  string
	Args func(id int64) []any
}

// Phase is one independently switchable reingest step.
type Phase struct {
	Name      string
	statement func(cfg domain.JobConfig) Statement
}

// Statement resolves the call this phase makes for cfg.
func (p Phase) Statement(cfg domain.JobConfig) Statement { return p.statement(cfg) }

type attrVariant int

const (
	fullReingest attrVariant = iota
	scopedReingest
)

func attrVariantOf(cfg domain.JobConfig) attrVariant {
	if len(cfg.Attrs) > 0 {
		return scopedReingest
	}
	return fullReingest
}

func attributeStatement(cfg domain.JobConfig) Statement {
	switch attrVariantOf(cfg) {
	case scopedReingest:
		attrs := cfg.Attrs
		return Statement{
			Name: "reingest_attrs_scoped",
			SQL:  scopedAttrSQL,
			Args: func(id int64) []any { return []any{id, id, attrs} },
		}
	default:
		return Statement{
			Name: "reingest_attrs",
			SQL:  fullAttrSQL,
			Args: func(id int64) []any { return []any{id, id} },
		}
	}
}

func fieldEntryPhase(name, skips string) Phase {
	stmt := Statement{
		Name: "reingest_" + name,
		SQL:  fmt.Sprintf(fieldEntrySQL, skips),
		Args: func(id int64) []any { return []any{id, id} },
	}
	return Phase{
		Name:      name,
		statement: func(domain.JobConfig) Statement { return stmt },
	}
}

var (
	browsePhase     = fieldEntryPhase(PhaseBrowse, "TRUE, TRUE, FALSE, TRUE")
	attributesPhase = Phase{Name: PhaseAttributes, statement: attributeStatement}
	searchPhase     = fieldEntryPhase(PhaseSearch, "TRUE, TRUE, TRUE, FALSE")
	facetsPhase     = fieldEntryPhase(PhaseFacets, "FALSE, TRUE, TRUE, TRUE")
	displayPhase    = fieldEntryPhase(PhaseDisplay, "TRUE, FALSE, TRUE, TRUE")
)

// Phases returns the phases enabled in cfg in the order they run.
func Phases(cfg domain.JobConfig) []Phase {
	var out []Phase
	if cfg.Browse {
		out = append(out, browsePhase)
	}
	if cfg.Attributes {
		out = append(out, attributesPhase)
	}
	if cfg.Search {
		out = append(out, searchPhase)
	}
	if cfg.Facets {
		out = append(out, facetsPhase)
	}
	if cfg.Display {
		out = append(out, displayPhase)
	}
	return out
}
