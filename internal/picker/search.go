package picker

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// SetQuery records a keystroke. A non-blank query (re)arms the debounce timer; a blank one
// cancels any pending lookup and clears results without a round trip. Typing also leaves the
// creation sub-state.
func (p *Picker) SetQuery(query string) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.query = query
	p.open = true
	p.creating = false
	p.category = ""
	p.message = ""
	p.abandonSearchLocked()
	p.searched = false

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		p.results = nil
		p.mu.Unlock()
		p.notify()
		return
	}

	seq := p.seq
	p.debounce.Trigger(func() { p.runSearch(seq, trimmed) })
	p.mu.Unlock()
	p.notify()
}

// abandonSearchLocked invalidates the pending timer and any in-flight request. Responses
// carrying an older sequence number are discarded on arrival.
func (p *Picker) abandonSearchLocked() {
	p.debounce.Cancel()
	p.seq++
	if p.inflight != nil {
		p.inflight()
		p.inflight = nil
	}
	p.loading = false
}

func (p *Picker) runSearch(seq uint64, query string) {
	p.mu.Lock()
	if p.stopped || seq != p.seq {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.inflight = cancel
	p.loading = true
	p.mu.Unlock()
	p.notify()

	results, err := p.lookup.Search(ctx, query)
	cancel()

	p.mu.Lock()
	if p.stopped || seq != p.seq {
		p.mu.Unlock()
		p.logger.Debug("discarding stale search response", zap.String("query", query))
		return
	}
	p.inflight = nil
	p.loading = false
	p.searched = true
	if err != nil {
		p.results = nil
		p.mu.Unlock()
		p.logger.Warn("entity search failed", zap.String("query", query), zap.Error(err))
		p.notify()
		return
	}
	p.results = append([]models.Entity(nil), results...)
	for _, e := range results {
		if e.ID != "" {
			p.cache[e.ID] = e
			delete(p.unresolved, e.ID)
		}
	}
	p.mu.Unlock()
	p.notify()
}
