// Package page models one wizard page: the radio, input and table elements a
// controller reads and writes, and the signals that tell when they exist.
package page

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

type Kind int

const (
	Radio Kind = iota + 1
	Input
	Table
)

func (k Kind) String() string {
	switch k {
	case Radio:
		return "radio"
	case Input:
		return "input"
	case Table:
		return "table"
	}
	return "unknown"
}

var (
	ErrNotFound  = errors.New("element not found")
	ErrWrongKind = errors.New("element has a different kind")
)

type element struct {
	id      string
	kind    Kind
	group   string // radio group name
	value   string
	checked bool
	markup  string
	hidden  bool
	seq     int
}

// Snapshot is a read-only copy of an element.
type Snapshot struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Group   string `json:"group,omitempty"`
	Value   string `json:"value,omitempty"`
	Checked bool   `json:"checked,omitempty"`
	Markup  string `json:"markup,omitempty"`
	Hidden  bool   `json:"hidden,omitempty"`
}

// Page is safe for concurrent use. Change handlers run after the page lock is
// released, so they may call back into the page.
type Page struct {
	mu       sync.Mutex
	elems    map[string]*element
	ready    map[string]chan struct{}
	handlers map[string][]func(value string)
	focused  string
	seq      int
}

func New() *Page {
	return &Page{
		elems:    make(map[string]*element),
		ready:    make(map[string]chan struct{}),
		handlers: make(map[string][]func(string)),
	}
}

// Ready returns a channel closed once an element with id is attached.
func (p *Page) Ready(id string) <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readyLocked(id)
}

func (p *Page) readyLocked(id string) chan struct{} {
	ch, ok := p.ready[id]
	if !ok {
		ch = make(chan struct{})
		p.ready[id] = ch
		if _, exists := p.elems[id]; exists {
			close(ch)
		}
	}
	return ch
}

func (p *Page) attach(e *element) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.elems[e.id]; ok {
		e.seq = old.seq
	} else {
		p.seq++
		e.seq = p.seq
	}
	p.elems[e.id] = e
	ch := p.readyLocked(e.id)
	select {
	case <-ch:
	default:
		close(ch)
	}
}

func (p *Page) AddRadio(id, group, value string) {
	p.attach(&element{id: id, kind: Radio, group: group, value: value})
}

func (p *Page) AddInput(id, value string) {
	p.attach(&element{id: id, kind: Input, value: value})
}

func (p *Page) AddTable(id, markup string) {
	p.attach(&element{id: id, kind: Table, markup: markup})
}

// Remove detaches an element; a later Ready(id) waits for it to come back.
func (p *Page) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elems, id)
	if ch, ok := p.ready[id]; ok {
		select {
		case <-ch:
			delete(p.ready, id)
		default:
		}
	}
}

func (p *Page) Has(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.elems[id]
	return ok
}

func (p *Page) get(id string, kind Kind) (*element, error) {
	e, ok := p.elems[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if kind != 0 && e.kind != kind {
		return nil, fmt.Errorf("%w: %s is %s, not %s", ErrWrongKind, id, e.kind, kind)
	}
	return e, nil
}

// OnChange registers fn for value changes of a radio group or an input id.
func (p *Page) OnChange(name string, fn func(value string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[name] = append(p.handlers[name], fn)
}

func (p *Page) fire(name, value string) {
	p.mu.Lock()
	hs := append([]func(string){}, p.handlers[name]...)
	p.mu.Unlock()
	for _, h := range hs {
		h(value)
	}
}

// Click checks a radio, unchecks the rest of its group and fires the group's
// change handlers.
func (p *Page) Click(id string) error {
	p.mu.Lock()
	e, err := p.get(id, Radio)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	for _, other := range p.elems {
		if other.kind == Radio && other.group == e.group {
			other.checked = false
		}
	}
	e.checked = true
	group, value := e.group, e.value
	p.mu.Unlock()

	p.fire(group, value)
	return nil
}

// Checked returns the value of the checked radio in group.
func (p *Page) Checked(group string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.elems {
		if e.kind == Radio && e.group == group && e.checked {
			return e.value, true
		}
	}
	return "", false
}

// RadioValue returns the value attribute of a radio element.
func (p *Page) RadioValue(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, err := p.get(id, Radio)
	if err != nil {
		return "", err
	}
	return e.value, nil
}

// SetValue sets an input's value and fires its change handlers.
func (p *Page) SetValue(id, value string) error {
	p.mu.Lock()
	e, err := p.get(id, Input)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	e.value = value
	p.mu.Unlock()

	p.fire(id, value)
	return nil
}

// Value returns an input's value.
func (p *Page) Value(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, err := p.get(id, Input)
	if err != nil {
		return "", err
	}
	return e.value, nil
}

func (p *Page) Focus(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.get(id, 0); err != nil {
		return err
	}
	p.focused = id
	return nil
}

func (p *Page) Focused() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focused
}

func (p *Page) SetMarkup(id, markup string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, err := p.get(id, Table)
	if err != nil {
		return err
	}
	e.markup = markup
	return nil
}

func (p *Page) Markup(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, err := p.get(id, Table)
	if err != nil {
		return "", err
	}
	return e.markup, nil
}

func (p *Page) SetHidden(id string, hidden bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, err := p.get(id, 0)
	if err != nil {
		return err
	}
	e.hidden = hidden
	return nil
}

func (p *Page) Hidden(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.elems[id]
	return ok && e.hidden
}

// Elements returns snapshots of every element of kind (all kinds when 0) in
// attach order.
func (p *Page) Elements(kind Kind) []Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	list := make([]*element, 0, len(p.elems))
	for _, e := range p.elems {
		if kind == 0 || e.kind == kind {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })

	out := make([]Snapshot, len(list))
	for i, e := range list {
		out[i] = Snapshot{
			ID:      e.id,
			Kind:    e.kind.String(),
			Group:   e.group,
			Value:   e.value,
			Checked: e.checked,
			Markup:  e.markup,
			Hidden:  e.hidden,
		}
	}
	return out
}

// Fragment attaches a group of elements.
type Fragment func(p *Page)

// Load attaches fragment on its own goroutine. The returned channel is closed
// when every element of the fragment is attached.
func (p *Page) Load(fragment Fragment) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fragment(p)
	}()
	return done
}
