package service

import (
	"context"

	"github.com/noah-isme/placement-portal-api/internal/models"
	appErrors "github.com/noah-isme/placement-portal-api/pkg/errors"
)

// resolveReferences swaps every skill and course reference for its entity, one batch per
// entity type. References to unknown ids are dropped.
func resolveReferences(ctx context.Context, skillFinder skillBatchFinder, courseFinder courseBatchFinder, profiles []models.StudentProfile) ([]models.StudentProfile, error) {
	skillIDs := newIDSet()
	courseIDs := newIDSet()
	for _, p := range profiles {
		for _, id := range p.Skills.IDs() {
			skillIDs.add(id)
		}
		for _, edu := range p.Education {
			courseIDs.add(edu.Course.ID())
		}
	}

	skills, err := findSkills(ctx, skillFinder, skillIDs.order)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve skills")
	}
	courses, err := findCourses(ctx, courseFinder, courseIDs.order)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve courses")
	}

	out := make([]models.StudentProfile, len(profiles))
	for i, p := range profiles {
		refs := make(models.SkillRefs, 0, len(p.Skills))
		for _, ref := range p.Skills {
			if sk, ok := skills[ref.ID()]; ok {
				refs = append(refs, models.Resolved(sk))
			}
		}
		p.Skills = refs

		education := make(models.EducationList, len(p.Education))
		for j, edu := range p.Education {
			if c, ok := courses[edu.Course.ID()]; ok {
				edu.Course = models.Resolved(c)
			} else {
				edu.Course = models.CourseRef{}
			}
			education[j] = edu
		}
		p.Education = education
		out[i] = p
	}
	return out, nil
}

func findSkills(ctx context.Context, finder skillBatchFinder, ids []string) (map[string]models.Skill, error) {
	found := make(map[string]models.Skill, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	skills, err := finder.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, sk := range skills {
		found[sk.ID] = sk
	}
	return found, nil
}

func findCourses(ctx context.Context, finder courseBatchFinder, ids []string) (map[string]models.Course, error) {
	found := make(map[string]models.Course, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	courses, err := finder.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		found[c.ID] = c
	}
	return found, nil
}

// missingIDs returns the ids absent from found, in request order.
func missingIDs[T any](ids []string, found map[string]T) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

type idSet struct {
	seen  map[string]struct{}
	order []string
}

func newIDSet() *idSet {
	return &idSet{seen: map[string]struct{}{}}
}

func (s *idSet) add(id string) {
	if id == "" {
		return
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}
