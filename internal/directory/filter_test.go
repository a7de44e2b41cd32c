package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func strPtr(s string) *string { return &s }

func skills(names ...string) models.SkillRefs {
	refs := make(models.SkillRefs, 0, len(names))
	for i, n := range names {
		refs = append(refs, models.Resolved(models.Skill{ID: string(rune('a' + i)), Name: n, DisplayName: n}))
	}
	return refs
}

func fixture() []models.StudentProfile {
	return []models.StudentProfile{
		{
			ID:             "p-1",
			Owner:          models.Owner{FirstName: "Asha", LastName: "Rao", University: "IIT Delhi"},
			Headline:       "Frontend engineer",
			PreferredField: strPtr("Web Development"),
			Skills:         skills("React", "Node"),
			LookingFor: &models.LookingFor{
				Type:     models.OpportunityInternship,
				FromDate: day("2025-01-01"),
			},
			TotalExperienceMonths: 6,
		},
		{
			ID:             "p-2",
			Owner:          models.Owner{FirstName: "Ben", LastName: "Okafor", University: "NIT Trichy"},
			Headline:       "Data person",
			PreferredField: strPtr("Data Science"),
			Skills:         skills("Python", "SQL"),
			LookingFor: &models.LookingFor{
				Type:     models.OpportunityJob,
				FromDate: day("2025-03-01"),
				ToDate:   day("2025-12-31"),
			},
			TotalExperienceMonths: 18,
		},
		{
			ID:                    "p-3",
			Owner:                 models.Owner{FirstName: "Chen", LastName: "Li", University: "IIT Delhi"},
			Headline:              "Systems",
			Skills:                append(skills("Go"), models.RefID[models.Skill]("unresolved")),
			TotalExperienceMonths: 30,
		},
		{
			ID:                    "p-4",
			Owner:                 models.Owner{FirstName: "Dana", LastName: "Ng"},
			PreferredField:        strPtr("Web Development"),
			Skills:                skills("React"),
			TotalExperienceMonths: 0,
		},
	}
}

func ids(profiles []models.StudentProfile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterEmptyCriteriaIsIdentity(t *testing.T) {
	profiles := fixture()
	got := Filter(profiles, models.FilterCriteria{})
	assert.Equal(t, ids(profiles), ids(got))
}

func TestFilterIsIdempotent(t *testing.T) {
	profiles := fixture()
	c := models.FilterCriteria{Query: "i", ExperienceBand: models.ExperienceBand0To6}
	first := Filter(profiles, c)
	second := Filter(profiles, c)
	assert.Equal(t, first, second)
}

func TestFilterNilProfiles(t *testing.T) {
	got := Filter(nil, models.FilterCriteria{Query: "x"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterQuery(t *testing.T) {
	profiles := fixture()
	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"full name", "asha rao", []string{"p-1"}},
		{"headline case-insensitive", "FRONTEND", []string{"p-1"}},
		{"skill label", "python", []string{"p-2"}},
		{"preferred field", "web dev", []string{"p-1", "p-4"}},
		{"whitespace only passes", "   ", []string{"p-1", "p-2", "p-3", "p-4"}},
		{"no match", "cobol", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(profiles, models.FilterCriteria{Query: tc.query})
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterSkillsUseAndSemantics(t *testing.T) {
	profiles := fixture()

	got := Filter(profiles, models.FilterCriteria{SkillNames: []string{"React", "Node"}})
	assert.Equal(t, []string{"p-1"}, ids(got))

	got = Filter(profiles, models.FilterCriteria{SkillNames: []string{"React", "Go"}})
	assert.Empty(t, got)

	got = Filter(profiles, models.FilterCriteria{SkillNames: []string{"React"}})
	assert.Equal(t, []string{"p-1", "p-4"}, ids(got))

	got = Filter(profiles, models.FilterCriteria{SkillNames: []string{"react"}})
	assert.Empty(t, got, "skill names compare exactly")
}

func TestFilterOpportunityType(t *testing.T) {
	profiles := fixture()
	got := Filter(profiles, models.FilterCriteria{OpportunityType: models.OpportunityJob})
	assert.Equal(t, []string{"p-2"}, ids(got))

	got = Filter(profiles, models.FilterCriteria{OpportunityType: models.OpportunityInternship})
	assert.Equal(t, []string{"p-1"}, ids(got), "profiles without lookingFor never match a type")
}

func TestFilterDateWindow(t *testing.T) {
	open := models.StudentProfile{
		ID:         "open",
		LookingFor: &models.LookingFor{Type: models.OpportunityJob, FromDate: day("2025-01-01")},
	}
	late := models.StudentProfile{
		ID:         "late",
		LookingFor: &models.LookingFor{Type: models.OpportunityJob, FromDate: day("2025-03-01")},
	}
	bounded := models.StudentProfile{
		ID: "bounded",
		LookingFor: &models.LookingFor{
			Type:     models.OpportunityJob,
			FromDate: day("2025-01-01"),
			ToDate:   day("2025-04-30"),
		},
	}
	none := models.StudentProfile{ID: "none"}

	t.Run("open ended profile passes the to check", func(t *testing.T) {
		c := models.FilterCriteria{DateWindow: models.DateWindow{From: day("2025-02-01"), To: day("2025-06-01")}}
		assert.True(t, Matches(open, c))
	})
	t.Run("profile must start no later than the requested start", func(t *testing.T) {
		c := models.FilterCriteria{DateWindow: models.DateWindow{From: day("2025-01-01")}}
		assert.True(t, Matches(open, c))
		assert.False(t, Matches(late, c))
	})
	t.Run("start after requested window start fails", func(t *testing.T) {
		c := models.FilterCriteria{DateWindow: models.DateWindow{From: day("2024-06-01"), To: day("2025-06-01")}}
		assert.False(t, Matches(open, c))
	})
	t.Run("bounded availability must cover the requested end", func(t *testing.T) {
		c := models.FilterCriteria{DateWindow: models.DateWindow{To: day("2025-06-01")}}
		assert.False(t, Matches(bounded, c))
		c.DateWindow.To = day("2025-04-30")
		assert.True(t, Matches(bounded, c))
	})
	t.Run("missing availability fails any set window", func(t *testing.T) {
		c := models.FilterCriteria{DateWindow: models.DateWindow{To: day("2025-06-01")}}
		assert.False(t, Matches(none, c))
		assert.True(t, Matches(none, models.FilterCriteria{}))
	})
}

func TestFilterExperienceBandBoundariesOverlap(t *testing.T) {
	profiles := fixture()

	got := Filter(profiles, models.FilterCriteria{ExperienceBand: models.ExperienceBand0To6})
	assert.Equal(t, []string{"p-1", "p-4"}, ids(got))

	got = Filter(profiles, models.FilterCriteria{ExperienceBand: models.ExperienceBand6To12})
	assert.Equal(t, []string{"p-1"}, ids(got), "6 months sits in both 0-6 and 6-12")

	got = Filter(profiles, models.FilterCriteria{ExperienceBand: models.ExperienceBand12To24})
	assert.Equal(t, []string{"p-2"}, ids(got))

	got = Filter(profiles, models.FilterCriteria{ExperienceBand: models.ExperienceBand24Plus})
	assert.Equal(t, []string{"p-3"}, ids(got))
}

func TestFilterFieldAndInstitutionExact(t *testing.T) {
	profiles := fixture()

	got := Filter(profiles, models.FilterCriteria{PreferredField: "Web Development"})
	assert.Equal(t, []string{"p-1", "p-4"}, ids(got))

	got = Filter(profiles, models.FilterCriteria{PreferredField: "web development"})
	assert.Empty(t, got)

	got = Filter(profiles, models.FilterCriteria{Institution: "IIT Delhi"})
	assert.Equal(t, []string{"p-1", "p-3"}, ids(got))
}

func TestFilterMonotonicNarrowing(t *testing.T) {
	profiles := fixture()
	base := models.FilterCriteria{Query: "e"}
	before := ids(Filter(profiles, base))

	additions := []func(*models.FilterCriteria){
		func(c *models.FilterCriteria) { c.SkillNames = []string{"React"} },
		func(c *models.FilterCriteria) { c.OpportunityType = models.OpportunityJob },
		func(c *models.FilterCriteria) { c.DateWindow.From = day("2025-06-01") },
		func(c *models.FilterCriteria) { c.ExperienceBand = models.ExperienceBand12To24 },
		func(c *models.FilterCriteria) { c.PreferredField = "Data Science" },
		func(c *models.FilterCriteria) { c.Institution = "IIT Delhi" },
	}
	for i, add := range additions {
		c := base
		add(&c)
		after := ids(Filter(profiles, c))
		assert.Subset(t, before, after, "addition %d widened the result", i)
	}
}

func TestFilterCombinedCriteria(t *testing.T) {
	c := models.FilterCriteria{
		Query:           "rao",
		SkillNames:      []string{"React"},
		OpportunityType: models.OpportunityInternship,
		DateWindow:      models.DateWindow{From: day("2025-02-01"), To: day("2025-08-01")},
		ExperienceBand:  models.ExperienceBand0To6,
		PreferredField:  "Web Development",
		Institution:     "IIT Delhi",
	}
	assert.Equal(t, []string{"p-1"}, ids(Filter(fixture(), c)))
}

func TestPreferredFieldsDistinctInOrder(t *testing.T) {
	profiles := fixture()
	assert.Equal(t, []string{"Web Development", "Data Science"}, PreferredFields(profiles))
	assert.Equal(t, []string{}, PreferredFields(nil))
}

func TestInstitutions(t *testing.T) {
	assert.Equal(t, []string{"IIT Delhi", "NIT Trichy"}, Institutions(fixture()))
}

func TestActive(t *testing.T) {
	assert.False(t, Active(models.FilterCriteria{}))
	assert.False(t, Active(models.FilterCriteria{Query: "  ", SkillNames: []string{" "}}))
	assert.True(t, Active(models.FilterCriteria{Query: "x"}))
	assert.True(t, Active(models.FilterCriteria{DateWindow: models.DateWindow{To: day("2025-01-01")}}))
	assert.True(t, Active(models.FilterCriteria{Institution: "IIT Delhi"}))
}

func TestNormalizeDropsBlankAndDuplicateSkills(t *testing.T) {
	c := Normalize(models.FilterCriteria{SkillNames: []string{" React ", "", "React", "Go"}})
	assert.Equal(t, []string{"React", "Go"}, c.SkillNames)
}
