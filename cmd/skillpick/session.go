package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/picker"
)

type session struct {
	mu  sync.Mutex
	out io.Writer
	p   *picker.Picker
}

func newSession(out io.Writer) *session {
	return &session{out: out}
}

// newPicker builds the one picker the session drives: courses (single select) or skills.
func newPicker(course bool, skills, courses picker.Lookup, opts picker.Options) *picker.Picker {
	if course {
		return picker.NewCoursePicker(courses, opts)
	}
	return picker.NewSkillPicker(skills, opts)
}

func (s *session) attach(p *picker.Picker) {
	s.p = p
}

// run executes commands until EOF or :quit.
func (s *session) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	s.p.Focus()
	defer s.summary()
	for scanner.Scan() {
		if quit := s.exec(ctx, scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// summary prints the committed selection as id and label pairs.
func (s *session) summary() {
	for _, e := range s.p.SelectedEntities() {
		s.printf("%s\t%s\n", e.ID, e.Label())
	}
}

func (s *session) exec(ctx context.Context, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case ":quit", ":q":
		return true
	case ":close":
		s.p.Close()
	case ":pick":
		s.pick(arg)
	case ":category":
		if !s.p.View().Creating && !s.p.BeginCreate() {
			s.printf("category applies to course creation only\n")
			return false
		}
		if err := s.p.SetCategory(models.CourseCategory(strings.TrimSpace(arg))); err != nil {
			s.printf("error: %v (one of %s)\n", err, categoryList())
		}
	case ":add":
		if s.p.Mode() == picker.Single && !s.p.View().Creating {
			s.printf("choose a category first with :category\n")
			return false
		}
		entity, err := s.p.CreateAndSelect(ctx)
		if err != nil {
			s.printf("error: %v\n", err)
			return false
		}
		s.printf("created %s (%s)\n", entity.Label(), entity.ID)
	default:
		s.p.SetQuery(line)
	}
	return false
}

func categoryList() string {
	categories := models.CourseCategories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func (s *session) pick(arg string) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	results := s.p.View().Results
	if err != nil || n < 1 || n > len(results) {
		s.printf("no result %q\n", arg)
		return
	}
	s.p.SelectExisting(results[n-1])
}

func (s *session) render(v picker.View) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] query=%q", v.Phase, v.Query)
	if v.Loading {
		b.WriteString(" (searching)")
	}
	b.WriteByte('\n')
	if v.Open {
		for i, e := range v.Results {
			mark := " "
			for _, id := range v.Selected {
				if id == e.ID {
					mark = "x"
				}
			}
			fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, mark, e.Label())
		}
		if v.CanCreate {
			fmt.Fprintf(&b, "  + :add %q\n", strings.TrimSpace(v.Query))
		}
	}
	if len(v.Chips) > 0 {
		labels := make([]string, len(v.Chips))
		for i, c := range v.Chips {
			labels[i] = c.Label
		}
		fmt.Fprintf(&b, "  selected: %s\n", strings.Join(labels, ", "))
	}
	if v.Message != "" {
		fmt.Fprintf(&b, "  ! %s\n", v.Message)
	}
	s.printf("%s", b.String())
}

func (s *session) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
