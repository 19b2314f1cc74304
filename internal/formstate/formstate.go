package formstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"Loadline/internal/page"
)

// Page sections stored in one project document.
const (
	InputPage  = "input_page"
	LoadPage   = "load_page"
	ResultPage = "result_page"
)

var ErrElementMissing = errors.New("elements never appeared")

// Section holds one page's saved values keyed by element id.
type Section struct {
	Radio map[string]string `json:"radio"`
	Input map[string]string `json:"input"`
	Table map[string]string `json:"table"`
}

func (s Section) Len() int {
	return len(s.Radio) + len(s.Input) + len(s.Table)
}

// Document is the whole saved project state.
type Document map[string]Section

// Parse decodes a stored document. Empty input yields an empty document.
func Parse(data []byte) (Document, error) {
	doc := Document{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse form state: %w", err)
	}
	return doc, nil
}

func (d Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Merge returns a copy of d with other's sections laid over it.
func (d Document) Merge(other Document) Document {
	out := make(Document, len(d)+len(other))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Serialize records checked radios, non-empty inputs and every table of p
// under section.
func Serialize(section string, p *page.Page) Document {
	s := Section{
		Radio: map[string]string{},
		Input: map[string]string{},
		Table: map[string]string{},
	}
	for _, e := range p.Elements(0) {
		switch e.Kind {
		case page.Radio.String():
			if e.Checked {
				s.Radio[e.ID] = e.Value
			}
		case page.Input.String():
			if e.Value != "" {
				s.Input[e.ID] = e.Value
			}
		case page.Table.String():
			s.Table[e.ID] = e.Markup
		}
	}
	return Document{section: s}
}

// Deserialize restores section of the stored document onto p. Every entry
// waits on its own for the element to be attached; radios are clicked when
// their value matches, inputs are set and focused, tables are replaced. It
// returns when all entries are applied, or when ctx ends, in which case the
// error lists the ids that never appeared.
func Deserialize(ctx context.Context, data []byte, section string, p *page.Page) error {
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	s, ok := doc[section]
	if !ok || s.Len() == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		missing []string
	)
	g, gctx := errgroup.WithContext(ctx)
	restore := func(id string, apply func() error) {
		g.Go(func() error {
			select {
			case <-p.Ready(id):
			case <-gctx.Done():
				mu.Lock()
				missing = append(missing, id)
				mu.Unlock()
				return nil
			}
			return apply()
		})
	}

	for id, want := range s.Radio {
		restore(id, func() error {
			v, err := p.RadioValue(id)
			if err != nil {
				return err
			}
			if v == want {
				return p.Click(id)
			}
			return nil
		})
	}
	for id, v := range s.Input {
		restore(id, func() error {
			if err := p.SetValue(id, v); err != nil {
				return err
			}
			return p.Focus(id)
		})
	}
	for id, markup := range s.Table {
		restore(id, func() error {
			return p.SetMarkup(id, markup)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("restore %s: %w", section, err)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("restore %s: %w: %s", section, ErrElementMissing, strings.Join(missing, ", "))
	}
	return nil
}
