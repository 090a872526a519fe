package blip

import (
	"fmt"

	"github.com/wavekit/wavekit/commons"
	"github.com/wavekit/wavekit/element"
)

// Value is one unit of insertable content: plain text, or a single element.
type Value struct {
	Text    string
	Element *element.Element

	props map[string]string // UPDATE_ELEMENT delta, set internally
}

// Text wraps a string into an insertable Value.
func Text(s string) Value { return Value{Text: s} }

// Elem wraps an element into an insertable Value.
func Elem(e *element.Element) Value { return Value{Element: e} }

func propsValue(m map[string]string) Value { return Value{props: m} }

// ValueFunc produces the value for one matched region from the document
// text as it stands when the region is reached, plus the region bounds.
type ValueFunc func(content string, start, end int) Value

// supplier hands the executor one payload per matched region and remembers
// what the change record should carry.
type supplier interface {
	next(content []rune, start, end int) Value
	record() []Value
}

// cycle round-robins a fixed value list across the matched regions. The
// change record carries the full provided list.
type cycle struct {
	values []Value
	idx    int
}

func (c *cycle) next(_ []rune, _, _ int) Value {
	v := c.values[c.idx]
	c.idx = (c.idx + 1) % len(c.values)
	return v
}

func (c *cycle) record() []Value { return c.values }

// generate invokes a ValueFunc per matched region. The change record
// carries the produced values.
type generate struct {
	fn      ValueFunc
	results []Value
}

func (g *generate) next(content []rune, start, end int) Value {
	v := g.fn(string(content), start, end)
	g.results = append(g.results, v)
	return v
}

func (g *generate) record() []Value { return g.results }

// Insert inserts content at the start of each matched region. Multiple
// values cycle round-robin across the regions.
func (r *Refs) Insert(values ...Value) error {
	sup, err := newCycle(values)
	if err != nil {
		return err
	}
	return r.execute(commons.Insert, sup, "")
}

// InsertFunc inserts a generated value at the start of each matched region.
func (r *Refs) InsertFunc(fn ValueFunc) error {
	return r.execute(commons.Insert, &generate{fn: fn}, "")
}

// InsertAfter inserts content just after each matched region.
func (r *Refs) InsertAfter(values ...Value) error {
	sup, err := newCycle(values)
	if err != nil {
		return err
	}
	return r.execute(commons.InsertAfter, sup, "")
}

// InsertAfterFunc inserts a generated value just after each matched region.
func (r *Refs) InsertAfterFunc(fn ValueFunc) error {
	return r.execute(commons.InsertAfter, &generate{fn: fn}, "")
}

// Replace replaces each matched region with content.
func (r *Refs) Replace(values ...Value) error {
	sup, err := newCycle(values)
	if err != nil {
		return err
	}
	return r.execute(commons.Replace, sup, "")
}

// ReplaceFunc replaces each matched region with a generated value.
func (r *Refs) ReplaceFunc(fn ValueFunc) error {
	return r.execute(commons.Replace, &generate{fn: fn}, "")
}

// Delete removes each matched region together with the elements inside it.
func (r *Refs) Delete() error {
	return r.execute(commons.Delete, nil, "")
}

// Annotate annotates each matched region under name. Multiple values cycle
// round-robin across the regions.
func (r *Refs) Annotate(name string, values ...string) error {
	if len(values) == 0 {
		return ErrNoValues
	}
	vals := make([]Value, len(values))
	for i, s := range values {
		vals[i] = Text(s)
	}
	return r.execute(commons.Annotate, &cycle{values: vals}, name)
}

// AnnotateFunc annotates each matched region under name with a generated
// value.
func (r *Refs) AnnotateFunc(name string, fn func(content string, start, end int) string) error {
	wrap := func(content string, start, end int) Value {
		return Text(fn(content, start, end))
	}
	return r.execute(commons.Annotate, &generate{fn: wrap}, name)
}

// ClearAnnotation removes the named annotations from each matched region.
func (r *Refs) ClearAnnotation(name string) error {
	return r.execute(commons.ClearAnnotation, nil, name)
}

// UpdateElement merges a property delta into the element at the start of
// each matched region. Multiple deltas cycle round-robin across the
// regions. A region whose start holds no element fails with ErrNoElementAt.
func (r *Refs) UpdateElement(deltas ...map[string]string) error {
	if len(deltas) == 0 {
		return ErrNoValues
	}
	vals := make([]Value, len(deltas))
	for i, m := range deltas {
		vals[i] = propsValue(m)
	}
	return r.execute(commons.UpdateElement, &cycle{values: vals}, "")
}

// UpdateElementFunc merges a generated property delta into the element at
// the start of each matched region.
func (r *Refs) UpdateElementFunc(fn func(content string, start, end int) map[string]string) error {
	wrap := func(content string, start, end int) Value {
		return propsValue(fn(content, start, end))
	}
	return r.execute(commons.UpdateElement, &generate{fn: wrap}, "")
}

func newCycle(values []Value) (*cycle, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	return &cycle{values: values}, nil
}

// execute runs one mutation kind across every region the selector matches,
// then queues the single change record describing the whole mutation.
// Regions are validated one at a time as they are reached, so a failure on
// a later region leaves earlier regions mutated and queues nothing.
func (r *Refs) execute(how commons.ModifyHow, sup supplier, annotationName string) error {
	b := r.blip
	var updated []*element.Element

	it := r.hits()
	for {
		rawStart, rawEnd, ok := it.next()
		if !ok {
			break
		}
		start, end := b.normalizeRange(rawStart, rawEnd)
		if err := b.validateRange(start, end); err != nil {
			return err
		}

		switch how {
		case commons.Delete:
			for i := start; i < end; i++ {
				delete(b.elements, i)
			}
			b.shift(end, start-end)
			b.spliceText(start, end, nil)

		case commons.Annotate:
			v := sup.next(b.content, start, end)
			b.annotations.add(annotationName, v.Text, start, end)

		case commons.ClearAnnotation:
			b.annotations.remove(annotationName, start, end)

		case commons.UpdateElement:
			v := sup.next(b.content, start, end)
			el, present := b.elements[start]
			if !present {
				return fmt.Errorf("%w: %d", ErrNoElementAt, start)
			}
			el.ApplyUpdate(v.props)
			updated = append(updated, element.New(el.Type, v.props))

		case commons.Insert, commons.InsertAfter, commons.Replace:
			v := sup.next(b.content, start, end)
			if how == commons.Insert {
				end = start
			}
			if how == commons.InsertAfter {
				start = end
			}
			if v.Element != nil {
				b.shift(end, 1+start-end)
				b.spliceText(start, end, []rune{elementPlaceholder})
				b.elements[start] = v.Element
			} else {
				text := []rune(v.Text)
				b.shift(end, len(text)+start-end)
				b.spliceText(start, end, text)
			}

		default:
			panic(fmt.Sprintf("blip: unknown mutation kind %q", how))
		}
	}

	action := &commons.ModifyAction{ModifyHow: how}
	switch how {
	case commons.Delete:
		// No payload.
	case commons.UpdateElement:
		for _, el := range updated {
			action.Elements = append(action.Elements, el.Data())
		}
	case commons.Annotate:
		action.AnnotationKey = annotationName
		for _, v := range sup.record() {
			action.Values = append(action.Values, v.Text)
		}
	case commons.ClearAnnotation:
		action.AnnotationKey = annotationName
	default:
		vals := sup.record()
		if len(vals) > 0 && vals[0].Element != nil {
			for _, v := range vals {
				if v.Element != nil {
					action.Elements = append(action.Elements, v.Element.Data())
				}
			}
		} else {
			for _, v := range vals {
				action.Values = append(action.Values, v.Text)
			}
		}
	}

	params := r.params()
	params.Action = action
	b.queue.DocumentModify(b.waveID, b.waveletID, b.id, params)
	return nil
}
