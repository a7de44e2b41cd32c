package directory

import (
	"time"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// Snapshot is an immutable point-in-time copy of the directory. Refreshing replaces the whole
// snapshot; callers must not mutate Students.
type Snapshot struct {
	Students []models.StudentProfile `json:"students"`
	TakenAt  time.Time               `json:"takenAt"`
}

// NewSnapshot copies profiles into a fresh snapshot.
func NewSnapshot(profiles []models.StudentProfile, takenAt time.Time) *Snapshot {
	students := make([]models.StudentProfile, len(profiles))
	copy(students, profiles)
	return &Snapshot{Students: students, TakenAt: takenAt}
}

// Len returns the number of profiles, zero for a nil snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Students)
}

// View is the derived directory state for one set of criteria.
type View struct {
	Loaded          bool                    `json:"loaded"`
	Total           int                     `json:"total"`
	Matched         int                     `json:"matched"`
	Students        []models.StudentProfile `json:"students"`
	PreferredFields []string                `json:"preferredFields"`
	Institutions    []string                `json:"institutions"`
	FiltersActive   bool                    `json:"filtersActive"`
}

// Compute derives the view. A nil snapshot means the directory has not loaded yet: the result
// is empty with Loaded=false, which differs from a loaded snapshot with zero matches.
func Compute(s *Snapshot, c models.FilterCriteria) View {
	view := View{
		Students:        []models.StudentProfile{},
		PreferredFields: []string{},
		Institutions:    []string{},
		FiltersActive:   Active(c),
	}
	if s == nil {
		return view
	}
	view.Loaded = true
	view.Total = len(s.Students)
	view.Students = Filter(s.Students, c)
	view.Matched = len(view.Students)
	view.PreferredFields = PreferredFields(s.Students)
	view.Institutions = Institutions(s.Students)
	return view
}
