// Package picker implements a debounced search-or-create selector for skills and courses.
//
// A Picker is owned by one caller. Its methods are safe for concurrent use because searches
// and resolutions complete on background goroutines, but callers are expected to drive it
// from a single event loop.
package picker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/pkg/debounce"
)

// DefaultDelay is the debounce interval between the last keystroke and the lookup.
const DefaultDelay = 350 * time.Millisecond

// LoadingLabel is shown for selected ids whose entity has not been fetched yet.
const LoadingLabel = "Loading…"

var (
	// ErrCreateUnavailable is returned when CreateAndSelect is called while creation is not allowed.
	ErrCreateUnavailable = errors.New("picker: create not available")
	// ErrInvalidCategory is returned for categories outside the fixed course set.
	ErrInvalidCategory = errors.New("picker: invalid category")
	// ErrStopped is returned after Stop.
	ErrStopped = errors.New("picker: stopped")
)

// Lookup is the remote search-and-create collaborator.
type Lookup interface {
	Search(ctx context.Context, query string) ([]models.Entity, error)
	Create(ctx context.Context, name string, category models.CourseCategory) (models.Entity, error)
}

// Resolver fetches a single entity. Lookups that also implement it let the picker label
// selected ids it has never seen.
type Resolver interface {
	Get(ctx context.Context, id string) (models.Entity, error)
}

// Mode selects single or multi selection.
type Mode int

const (
	// Multi toggles membership and keeps the dropdown open.
	Multi Mode = iota
	// Single replaces the selection, closes, and requires a category to create.
	Single
)

// Phase is the observable state of the picker.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseTyping    Phase = "typing"
	PhaseSearching Phase = "searching"
	PhaseResults   Phase = "results"
	PhaseEmpty     Phase = "empty"
	PhaseCreating  Phase = "creating"
)

// Options configures a Picker.
type Options struct {
	Mode   Mode
	Delay  time.Duration
	Logger *zap.Logger
	// OnChange receives a fresh view after every state change.
	OnChange func(View)
	// OnSelect receives the selected entities whenever the selection changes.
	OnSelect func([]models.Entity)
}

// Chip is one rendered selection.
type Chip struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Loading bool   `json:"loading"`
}

// View is a consistent copy of the picker state.
type View struct {
	Phase     Phase                 `json:"phase"`
	Query     string                `json:"query"`
	Results   []models.Entity       `json:"results"`
	Open      bool                  `json:"open"`
	Loading   bool                  `json:"loading"`
	Creating  bool                  `json:"creating"`
	Category  models.CourseCategory `json:"category,omitempty"`
	CanCreate bool                  `json:"canCreate"`
	Selected  []string              `json:"selected"`
	Chips     []Chip                `json:"chips"`
	Message   string                `json:"message,omitempty"`
}

// Picker holds the query, results and selection of one search-or-create control.
type Picker struct {
	mu       sync.Mutex
	lookup   Lookup
	resolver Resolver
	mode     Mode
	logger   *zap.Logger
	debounce *debounce.Debouncer
	onChange func(View)
	onSelect func([]models.Entity)

	ctx  context.Context
	stop context.CancelFunc

	query      string
	results    []models.Entity
	open       bool
	loading    bool
	searched   bool
	creating   bool
	submitting bool
	category   models.CourseCategory
	message    string

	selected   []string
	cache      map[string]models.Entity
	resolving  map[string]struct{}
	unresolved map[string]struct{}

	seq      uint64
	inflight context.CancelFunc
	stopped  bool
}

// New constructs a Picker over lookup.
func New(lookup Lookup, opts Options) *Picker {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Picker{
		lookup:     lookup,
		mode:       opts.Mode,
		logger:     logger,
		debounce:   debounce.New(delay),
		onChange:   opts.OnChange,
		onSelect:   opts.OnSelect,
		ctx:        ctx,
		stop:       cancel,
		cache:      make(map[string]models.Entity),
		resolving:  make(map[string]struct{}),
		unresolved: make(map[string]struct{}),
	}
	if r, ok := lookup.(Resolver); ok {
		p.resolver = r
	}
	return p
}

// NewSkillPicker builds a multi-select picker.
func NewSkillPicker(lookup Lookup, opts Options) *Picker {
	opts.Mode = Multi
	return New(lookup, opts)
}

// NewCoursePicker builds a single-select picker.
func NewCoursePicker(lookup Lookup, opts Options) *Picker {
	opts.Mode = Single
	return New(lookup, opts)
}

// Mode returns the selection mode.
func (p *Picker) Mode() Mode {
	return p.mode
}

// View returns a snapshot of the current state.
func (p *Picker) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

// Selected returns the selected ids in selection order.
func (p *Picker) Selected() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.selected...)
}

// SelectedEntities returns the selected ids that have a cached entity.
func (p *Picker) SelectedEntities() []models.Entity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectedEntitiesLocked()
}

// Focus opens the dropdown without changing the query.
func (p *Picker) Focus() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.open = true
	p.mu.Unlock()
	p.notify()
}

// Close dismisses the dropdown. Pending and in-flight searches are abandoned, the creation
// sub-state is left, and the query and results are reset. Selection and the entity cache are
// kept. A single-select picker keeps showing the selected entity's label as its query.
func (p *Picker) Close() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.abandonSearchLocked()
	p.open = false
	p.creating = false
	p.category = ""
	p.results = nil
	p.searched = false
	p.message = ""
	p.query = ""
	if p.mode == Single && len(p.selected) == 1 {
		if e, ok := p.cache[p.selected[0]]; ok {
			p.query = e.Label()
		}
	}
	p.mu.Unlock()
	p.notify()
}

// Stop releases the picker: timers are cancelled, in-flight requests are aborted and no
// further callbacks are delivered.
func (p *Picker) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.seq++
	p.inflight = nil
	p.onChange = nil
	p.onSelect = nil
	p.mu.Unlock()

	p.debounce.Stop()
	p.stop()
}

func (p *Picker) viewLocked() View {
	v := View{
		Phase:     p.phaseLocked(),
		Query:     p.query,
		Results:   append([]models.Entity{}, p.results...),
		Open:      p.open,
		Loading:   p.loading || p.submitting,
		Creating:  p.creating,
		Category:  p.category,
		CanCreate: p.canCreateLocked(),
		Selected:  append([]string{}, p.selected...),
		Chips:     make([]Chip, 0, len(p.selected)),
		Message:   p.message,
	}
	for _, id := range p.selected {
		v.Chips = append(v.Chips, p.chipLocked(id))
	}
	return v
}

func (p *Picker) phaseLocked() Phase {
	switch {
	case p.creating:
		return PhaseCreating
	case !p.open:
		return PhaseIdle
	case strings.TrimSpace(p.query) == "":
		return PhaseIdle
	case p.loading:
		return PhaseSearching
	case !p.searched:
		return PhaseTyping
	case len(p.results) == 0:
		return PhaseEmpty
	default:
		return PhaseResults
	}
}

func (p *Picker) chipLocked(id string) Chip {
	if e, ok := p.cache[id]; ok {
		return Chip{ID: id, Label: e.Label()}
	}
	if _, ok := p.unresolved[id]; ok {
		return Chip{ID: id, Label: id}
	}
	return Chip{ID: id, Label: LoadingLabel, Loading: true}
}

func (p *Picker) selectedEntitiesLocked() []models.Entity {
	out := make([]models.Entity, 0, len(p.selected))
	for _, id := range p.selected {
		if e, ok := p.cache[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// notify delivers the current view outside the lock.
func (p *Picker) notify() {
	p.mu.Lock()
	fn := p.onChange
	var v View
	if fn != nil {
		v = p.viewLocked()
	}
	p.mu.Unlock()
	if fn != nil {
		fn(v)
	}
}

func (p *Picker) notifySelect() {
	p.mu.Lock()
	fn := p.onSelect
	var entities []models.Entity
	if fn != nil {
		entities = p.selectedEntitiesLocked()
	}
	p.mu.Unlock()
	if fn != nil {
		fn(entities)
	}
}
