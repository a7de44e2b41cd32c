// Package directory filters a snapshot of student profiles by combinable facets.
//
// Every function here is pure: results depend only on the arguments, and the input order of
// profiles is preserved in the output.
package directory

import (
	"strings"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// Normalize trims the query and drops blank or repeated skill names. Field and institution
// are compared verbatim.
func Normalize(c models.FilterCriteria) models.FilterCriteria {
	c.Query = strings.TrimSpace(c.Query)
	if len(c.SkillNames) > 0 {
		names := make([]string, 0, len(c.SkillNames))
		seen := make(map[string]struct{}, len(c.SkillNames))
		for _, name := range c.SkillNames {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
		c.SkillNames = names
	}
	return c
}

// Active reports whether any criterion differs from its unset value.
func Active(c models.FilterCriteria) bool {
	c = Normalize(c)
	return c.Query != "" ||
		len(c.SkillNames) > 0 ||
		c.OpportunityType != "" ||
		c.DateWindow.IsSet() ||
		c.ExperienceBand != "" ||
		c.PreferredField != "" ||
		c.Institution != ""
}

// Filter returns the profiles satisfying every set criterion, in input order. A nil input
// yields an empty, non-nil slice.
func Filter(profiles []models.StudentProfile, c models.FilterCriteria) []models.StudentProfile {
	c = Normalize(c)
	out := make([]models.StudentProfile, 0, len(profiles))
	for i := range profiles {
		if matches(&profiles[i], c) {
			out = append(out, profiles[i])
		}
	}
	return out
}

// Matches reports whether a single profile passes the criteria.
func Matches(p models.StudentProfile, c models.FilterCriteria) bool {
	return matches(&p, Normalize(c))
}

func matches(p *models.StudentProfile, c models.FilterCriteria) bool {
	return matchQuery(p, c.Query) &&
		matchField(p, c.PreferredField) &&
		matchInstitution(p, c.Institution) &&
		matchType(p, c.OpportunityType) &&
		matchExperience(p, c.ExperienceBand) &&
		matchDates(p, c.DateWindow) &&
		matchSkills(p, c.SkillNames)
}

func matchQuery(p *models.StudentProfile, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	haystacks := []string{
		p.Owner.FullName(),
		p.Headline,
		strings.Join(p.Skills.Labels(), " "),
		p.Field(),
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), q) {
			return true
		}
	}
	return false
}

// matchSkills requires every selected display name to be present on the profile.
func matchSkills(p *models.StudentProfile, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(p.Skills))
	for _, label := range p.Skills.Labels() {
		have[label] = struct{}{}
	}
	for _, name := range selected {
		if _, ok := have[name]; !ok {
			return false
		}
	}
	return true
}

func matchType(p *models.StudentProfile, t models.OpportunityType) bool {
	if t == "" {
		return true
	}
	return p.LookingFor != nil && p.LookingFor.Type == t
}

// matchDates checks availability: the student must start no later than the requested start
// and, when their availability ends, stay available through the requested end.
func matchDates(p *models.StudentProfile, w models.DateWindow) bool {
	if !w.IsSet() {
		return true
	}
	if p.LookingFor == nil || p.LookingFor.FromDate == nil {
		return false
	}
	if w.From != nil && p.LookingFor.FromDate.After(*w.From) {
		return false
	}
	if w.To != nil && p.LookingFor.ToDate != nil && p.LookingFor.ToDate.Before(*w.To) {
		return false
	}
	return true
}

func matchExperience(p *models.StudentProfile, band models.ExperienceBand) bool {
	if band == "" {
		return true
	}
	return band.Contains(p.TotalExperienceMonths)
}

func matchField(p *models.StudentProfile, field string) bool {
	if field == "" {
		return true
	}
	return p.PreferredField != nil && *p.PreferredField == field
}

func matchInstitution(p *models.StudentProfile, institution string) bool {
	if institution == "" {
		return true
	}
	return p.Owner.University == institution
}

// PreferredFields lists distinct non-empty preferred fields in order of first appearance.
func PreferredFields(profiles []models.StudentProfile) []string {
	fields := make([]string, 0)
	seen := make(map[string]struct{})
	for i := range profiles {
		f := profiles[i].Field()
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		fields = append(fields, f)
	}
	return fields
}

// Institutions lists distinct non-empty institutions in order of first appearance.
func Institutions(profiles []models.StudentProfile) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for i := range profiles {
		u := profiles[i].Owner.University
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
