package picker

import (
	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// SelectExisting picks a result. Single mode replaces the selection and closes with the
// entity's label as query; multi mode toggles membership and stays open.
func (p *Picker) SelectExisting(e models.Entity) {
	if e.ID == "" {
		return
	}
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.cache[e.ID] = e
	delete(p.unresolved, e.ID)
	if p.mode == Single {
		p.selectSingleLocked(e)
	} else {
		p.toggleLocked(e.ID)
	}
	p.mu.Unlock()
	p.notify()
	p.notifySelect()
}

// ToggleSelection removes id when selected and adds it otherwise. In single mode adding
// replaces the current selection.
func (p *Picker) ToggleSelection(id string) {
	if id == "" {
		return
	}
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if p.mode == Single && !p.isSelectedLocked(id) {
		p.selected = []string{id}
	} else {
		p.toggleLocked(id)
	}
	missing := p.missingLocked()
	p.mu.Unlock()
	p.resolve(missing)
	p.notify()
	p.notifySelect()
}

// SetSelected replaces the selection from the owner. A nil slice is an empty selection.
// Ids without a cached entity render as loading until resolved.
func (p *Picker) SetSelected(ids []string) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.selected = dedupe(ids)
	if p.mode == Single && len(p.selected) > 1 {
		p.selected = p.selected[:1]
	}
	missing := p.missingLocked()
	p.mu.Unlock()
	p.resolve(missing)
	p.notify()
}

func (p *Picker) selectSingleLocked(e models.Entity) {
	p.abandonSearchLocked()
	p.selected = []string{e.ID}
	p.query = e.Label()
	p.results = nil
	p.searched = false
	p.open = false
	p.creating = false
	p.category = ""
	p.message = ""
}

func (p *Picker) toggleLocked(id string) {
	for i, existing := range p.selected {
		if existing == id {
			p.selected = append(p.selected[:i:i], p.selected[i+1:]...)
			return
		}
	}
	p.selected = append(p.selected, id)
}

func (p *Picker) isSelectedLocked(id string) bool {
	for _, existing := range p.selected {
		if existing == id {
			return true
		}
	}
	return false
}

// missingLocked returns selected ids that are neither cached nor being fetched, and marks
// them as being fetched. Without a resolver nothing is fetched.
func (p *Picker) missingLocked() []string {
	if p.resolver == nil {
		return nil
	}
	var missing []string
	for _, id := range p.selected {
		if _, ok := p.cache[id]; ok {
			continue
		}
		if _, ok := p.resolving[id]; ok {
			continue
		}
		if _, ok := p.unresolved[id]; ok {
			continue
		}
		p.resolving[id] = struct{}{}
		missing = append(missing, id)
	}
	return missing
}

func (p *Picker) resolve(ids []string) {
	for _, id := range ids {
		go p.resolveOne(id)
	}
}

// resolveOne fills the cache for one selected id. Ids that cannot be fetched fall back to
// showing the raw id.
func (p *Picker) resolveOne(id string) {
	e, err := p.resolver.Get(p.ctx, id)

	p.mu.Lock()
	delete(p.resolving, id)
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.unresolved[id] = struct{}{}
		p.mu.Unlock()
		p.logger.Warn("resolve selected entity failed", zap.String("id", id), zap.Error(err))
		p.notify()
		return
	}
	if e.ID == "" {
		e.ID = id
	}
	p.cache[id] = e
	p.mu.Unlock()
	p.notify()
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
