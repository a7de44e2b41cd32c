package directory

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// DateLayout is the wire format of the availability window bounds.
const DateLayout = "2006-01-02"

// Query parameter names for directory criteria.
const (
	ParamQuery       = "q"
	ParamSkills      = "skills"
	ParamType        = "type"
	ParamFrom        = "from"
	ParamTo          = "to"
	ParamExperience  = "experience"
	ParamField       = "field"
	ParamInstitution = "institution"
)

// SkillSeparator separates skill names inside one skills value. Skill names cannot contain it.
const SkillSeparator = ","

// ParseCriteria reads criteria from URL query values. Skills may repeat or be comma separated.
// Unknown enum values and malformed dates are rejected.
func ParseCriteria(values url.Values) (models.FilterCriteria, error) {
	c := models.FilterCriteria{
		Query:          values.Get(ParamQuery),
		PreferredField: values.Get(ParamField),
		Institution:    values.Get(ParamInstitution),
	}

	for _, raw := range values[ParamSkills] {
		for _, name := range strings.Split(raw, SkillSeparator) {
			if name = strings.TrimSpace(name); name != "" {
				c.SkillNames = append(c.SkillNames, name)
			}
		}
	}

	if raw := values.Get(ParamType); raw != "" {
		t := models.OpportunityType(raw)
		if !t.Valid() {
			return models.FilterCriteria{}, fmt.Errorf("invalid %s %q: want internship or job", ParamType, raw)
		}
		c.OpportunityType = t
	}

	if raw := values.Get(ParamExperience); raw != "" {
		band := models.ExperienceBand(raw)
		if !band.Valid() {
			return models.FilterCriteria{}, fmt.Errorf("invalid %s %q: want 0-6, 6-12, 12-24 or 24+", ParamExperience, raw)
		}
		c.ExperienceBand = band
	}

	var err error
	if c.DateWindow.From, err = parseDate(ParamFrom, values.Get(ParamFrom)); err != nil {
		return models.FilterCriteria{}, err
	}
	if c.DateWindow.To, err = parseDate(ParamTo, values.Get(ParamTo)); err != nil {
		return models.FilterCriteria{}, err
	}
	return c, nil
}

// EncodeCriteria is the inverse of ParseCriteria. Unset criteria are omitted.
func EncodeCriteria(c models.FilterCriteria) url.Values {
	values := url.Values{}
	setIf := func(key, v string) {
		if v != "" {
			values.Set(key, v)
		}
	}
	setIf(ParamQuery, c.Query)
	for _, name := range c.SkillNames {
		values.Add(ParamSkills, name)
	}
	setIf(ParamType, string(c.OpportunityType))
	if c.DateWindow.From != nil {
		values.Set(ParamFrom, c.DateWindow.From.Format(DateLayout))
	}
	if c.DateWindow.To != nil {
		values.Set(ParamTo, c.DateWindow.To.Format(DateLayout))
	}
	setIf(ParamExperience, string(c.ExperienceBand))
	setIf(ParamField, c.PreferredField)
	setIf(ParamInstitution, c.Institution)
	return values
}

func parseDate(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: want YYYY-MM-DD", name, raw)
	}
	return &t, nil
}
