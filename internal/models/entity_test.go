package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillRefsDecodeMixedShapes(t *testing.T) {
	var refs SkillRefs
	payload := `["s-1", {"id":"s-2","name":"react","displayName":"React"}, null]`
	require.NoError(t, json.Unmarshal([]byte(payload), &refs))
	require.Len(t, refs, 3)

	assert.Equal(t, "s-1", refs[0].ID())
	assert.False(t, refs[0].IsResolved())
	assert.True(t, refs[1].IsResolved())
	assert.Equal(t, "React", refs[1].Label())
	assert.Equal(t, []string{"s-1", "s-2"}, refs.IDs())
	assert.Equal(t, []string{"React"}, refs.Labels())
}

func TestRefMarshalKeepsShape(t *testing.T) {
	bare, err := json.Marshal(RefID[Skill]("s-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `"s-1"`, string(bare))

	resolved, err := json.Marshal(Resolved(Course{ID: "c-1", Name: "B.Tech", Category: CourseCategoryUG}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c-1","name":"B.Tech","category":"ug"}`, string(resolved))

	assert.False(t, Resolved(Skill{ID: "s-9", Name: "go"}).Bare().IsResolved())
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "machine learning", CanonicalName("  Machine   Learning "))
}

func TestExperienceBandContainsIsInclusive(t *testing.T) {
	assert.True(t, ExperienceBand0To6.Contains(6))
	assert.True(t, ExperienceBand6To12.Contains(6))
	assert.True(t, ExperienceBand6To12.Contains(12))
	assert.True(t, ExperienceBand12To24.Contains(12))
	assert.True(t, ExperienceBand24Plus.Contains(24))
	assert.False(t, ExperienceBand0To6.Contains(7))
	assert.False(t, ExperienceBand("3-4").Contains(3))
}

func TestExperienceMonths(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	entries := []Experience{
		{StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: &end},
		{StartDate: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{StartDate: now.AddDate(0, 1, 0)},
	}
	assert.Equal(t, 6+4, ExperienceMonths(entries, now))
}
