package picker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// CanCreate reports whether CreateAndSelect would submit.
func (p *Picker) CanCreate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canCreateLocked()
}

// canCreateLocked: multi mode needs a non-blank name that no current result already carries;
// single mode needs the creation sub-state with a valid category.
func (p *Picker) canCreateLocked() bool {
	if p.stopped || p.submitting {
		return false
	}
	name := strings.TrimSpace(p.query)
	if name == "" {
		return false
	}
	if p.mode == Single {
		return p.creating && p.category.Valid()
	}
	for _, r := range p.results {
		if strings.EqualFold(r.Name, name) || strings.EqualFold(r.Label(), name) {
			return false
		}
	}
	return true
}

// BeginCreate enters the category sub-state of a single-select picker. It reports whether the
// sub-state was entered; multi-select pickers create directly and always return false.
func (p *Picker) BeginCreate() bool {
	p.mu.Lock()
	if p.stopped || p.mode != Single || strings.TrimSpace(p.query) == "" {
		p.mu.Unlock()
		return false
	}
	p.abandonSearchLocked()
	p.open = true
	p.creating = true
	p.category = ""
	p.message = ""
	p.mu.Unlock()
	p.notify()
	return true
}

// SetCategory chooses the category for the course about to be created.
func (p *Picker) SetCategory(c models.CourseCategory) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrStopped
	}
	if !p.creating {
		p.mu.Unlock()
		return ErrCreateUnavailable
	}
	p.category = c
	p.mu.Unlock()
	p.notify()
	return nil
}

// CancelCreate leaves the creation sub-state, keeping the query.
func (p *Picker) CancelCreate() {
	p.mu.Lock()
	if p.stopped || !p.creating {
		p.mu.Unlock()
		return
	}
	p.creating = false
	p.category = ""
	p.message = ""
	p.mu.Unlock()
	p.notify()
}

// CreateAndSelect creates an entity named after the current query and selects it. The new
// entity is cached so it renders without another fetch. On failure the picker keeps its
// pre-submission state, records an inline message and returns the error.
func (p *Picker) CreateAndSelect(ctx context.Context) (models.Entity, error) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return models.Entity{}, ErrStopped
	}
	if !p.canCreateLocked() {
		p.mu.Unlock()
		return models.Entity{}, ErrCreateUnavailable
	}
	name := strings.TrimSpace(p.query)
	category := p.category
	p.abandonSearchLocked()
	p.submitting = true
	p.message = ""
	p.mu.Unlock()
	p.notify()

	entity, err := p.lookup.Create(ctx, name, category)

	p.mu.Lock()
	p.submitting = false
	if p.stopped {
		p.mu.Unlock()
		return entity, err
	}
	if err != nil {
		p.message = fmt.Sprintf("Could not create %q: %v", name, err)
		p.mu.Unlock()
		p.logger.Warn("entity create failed",
			zap.String("name", name),
			zap.String("category", string(category)),
			zap.Error(err),
		)
		p.notify()
		return models.Entity{}, err
	}

	p.cache[entity.ID] = entity
	delete(p.unresolved, entity.ID)
	if p.mode == Single {
		p.selectSingleLocked(entity)
	} else {
		if !p.isSelectedLocked(entity.ID) {
			p.selected = append(p.selected, entity.ID)
		}
		p.query = ""
		p.results = nil
		p.searched = false
		p.open = false
		p.creating = false
		p.category = ""
	}
	p.mu.Unlock()

	p.notify()
	p.notifySelect()
	return entity, nil
}
