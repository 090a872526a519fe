package blip

import (
	"sort"

	"github.com/wavekit/wavekit/commons"
)

// Annotation is keyed metadata over a half-open [Start, End) span of
// document content.
type Annotation struct {
	Name  string
	Value string
	Start int
	End   int
}

// shift moves the bounds lying strictly after where by delta. A bound
// sitting exactly at where is anchored and stays put, so an insertion at an
// annotation's start grows the annotation while an insertion at its end
// lands outside it. Elements follow the opposite rule; see Blip.shift.
func (a *Annotation) shift(where, delta int) {
	if a.Start > where {
		a.Start += delta
	}
	if a.End > where {
		a.End += delta
	}
}

// Data returns the snapshot form of the annotation.
func (a *Annotation) Data() commons.AnnotationData {
	return commons.AnnotationData{
		Name:  a.Name,
		Value: a.Value,
		Range: commons.Range{Start: a.Start, End: a.End},
	}
}

// Annotations stores a document's annotations grouped by name. For any one
// name the stored ranges never overlap: adding an overlapping range merges
// it with entries carrying the same value and splits entries carrying a
// different one.
type Annotations struct {
	store map[string][]Annotation
}

func newAnnotations() *Annotations {
	return &Annotations{store: make(map[string][]Annotation)}
}

// Has reports whether at least one annotation with the name exists.
func (s *Annotations) Has(name string) bool {
	_, ok := s.store[name]
	return ok
}

// Len returns the number of distinct annotation names.
func (s *Annotations) Len() int {
	return len(s.store)
}

// Names returns the annotation names in sorted order.
func (s *Annotations) Names() []string {
	names := make([]string, 0, len(s.store))
	for name := range s.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ranges returns a copy of the stored annotations with the name, in storage
// order.
func (s *Annotations) Ranges(name string) []Annotation {
	return append([]Annotation(nil), s.store[name]...)
}

// Data returns the snapshot form of every stored annotation, grouped by
// sorted name.
func (s *Annotations) Data() []commons.AnnotationData {
	var res []commons.AnnotationData
	for _, name := range s.Names() {
		for _, a := range s.store[name] {
			res = append(res, a.Data())
		}
	}
	return res
}

// add stores an annotation. Overlapping or touching entries under the same
// name are absorbed when they carry the same value; entries carrying a
// different value are clipped to the parts outside the incoming range.
func (s *Annotations) add(name, value string, start, end int) {
	existing, ok := s.store[name]
	if !ok {
		s.store[name] = []Annotation{{Name: name, Value: value, Start: start, End: end}}
		return
	}
	next := make([]Annotation, 0, len(existing)+1)
	for _, a := range existing {
		if start > a.End || end < a.Start {
			next = append(next, a)
			continue
		}
		if a.Value == value {
			// Absorb: widen the incoming range over the old entry.
			if a.Start < start {
				start = a.Start
			}
			if a.End > end {
				end = a.End
			}
			continue
		}
		if a.Start < start {
			next = append(next, Annotation{Name: name, Value: a.Value, Start: a.Start, End: start})
		}
		if a.End > end {
			next = append(next, Annotation{Name: name, Value: a.Value, Start: end, End: a.End})
		}
	}
	s.store[name] = append(next, Annotation{Name: name, Value: value, Start: start, End: end})
}

// remove clears [start, end) from the annotations with the name. Entries
// covered by the span are dropped, partly covered entries keep the
// remainder outside it. Unknown names are a no-op.
func (s *Annotations) remove(name string, start, end int) {
	existing, ok := s.store[name]
	if !ok {
		return
	}
	next := make([]Annotation, 0, len(existing))
	for _, a := range existing {
		if start > a.End || end < a.Start {
			next = append(next, a)
			continue
		}
		if a.Start < start {
			next = append(next, Annotation{Name: name, Value: a.Value, Start: a.Start, End: start})
		}
		if a.End > end {
			next = append(next, Annotation{Name: name, Value: a.Value, Start: end, End: a.End})
		}
	}
	if len(next) == 0 {
		delete(s.store, name)
		return
	}
	s.store[name] = next
}

// shift applies the annotation boundary rule to every stored entry.
func (s *Annotations) shift(where, delta int) {
	for _, list := range s.store {
		for i := range list {
			list[i].shift(where, delta)
		}
	}
}
