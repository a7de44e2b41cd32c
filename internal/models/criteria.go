package models

import "time"

// ExperienceBand buckets total experience months for filtering.
type ExperienceBand string

const (
	ExperienceBand0To6   ExperienceBand = "0-6"
	ExperienceBand6To12  ExperienceBand = "6-12"
	ExperienceBand12To24 ExperienceBand = "12-24"
	ExperienceBand24Plus ExperienceBand = "24+"
)

// Valid reports whether b is a known band.
func (b ExperienceBand) Valid() bool {
	switch b {
	case ExperienceBand0To6, ExperienceBand6To12, ExperienceBand12To24, ExperienceBand24Plus:
		return true
	default:
		return false
	}
}

// Contains reports whether months falls in the band. Bounds are inclusive on both ends, so 6
// and 12 belong to two bands each.
func (b ExperienceBand) Contains(months int) bool {
	switch b {
	case ExperienceBand0To6:
		return months >= 0 && months <= 6
	case ExperienceBand6To12:
		return months >= 6 && months <= 12
	case ExperienceBand12To24:
		return months >= 12 && months <= 24
	case ExperienceBand24Plus:
		return months >= 24
	default:
		return false
	}
}

// DateWindow is the requested availability window. Either bound may be unset.
type DateWindow struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsSet reports whether at least one bound is set.
func (w DateWindow) IsSet() bool {
	return w.From != nil || w.To != nil
}

// FilterCriteria holds the independently settable directory facets. The zero value imposes
// no constraint.
type FilterCriteria struct {
	Query           string          `json:"query,omitempty"`
	SkillNames      []string        `json:"skills,omitempty"`
	OpportunityType OpportunityType `json:"type,omitempty"`
	DateWindow      DateWindow      `json:"dateWindow"`
	ExperienceBand  ExperienceBand  `json:"experience,omitempty"`
	PreferredField  string          `json:"field,omitempty"`
	Institution     string          `json:"institution,omitempty"`
}
