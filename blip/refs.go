package blip

import (
	"github.com/wavekit/wavekit/commons"
	"github.com/wavekit/wavekit/element"
	"github.com/wavekit/wavekit/ops"
)

// ElementMatch is the predicate of an element selector: the element kind,
// plus property values that must all hold exactly.
type ElementMatch struct {
	Type         element.Type
	Restrictions map[string]string
}

type refsMode int

const (
	modeAll refsMode = iota
	modeText
	modeElement
	modeRange
)

// Refs is a deferred, re-evaluable query against a blip that resolves to
// zero or more matched regions. Every evaluation (HasMatch, Value, or a
// mutation) starts a fresh iteration over the blip's current state. Text
// selectors find their occurrences lazily while the per-region mutation
// loop runs, each search resuming where the previous match ended; element
// selectors fix the candidate offsets up front and skip any candidate whose
// element has moved away by the time it is reached.
type Refs struct {
	blip       *Blip
	mode       refsMode
	pattern    string
	elem       ElementMatch
	maxResults int
	begin, end int
}

func newAllRefs(b *Blip) *Refs {
	return &Refs{blip: b, mode: modeAll}
}

func newTextRefs(b *Blip, pattern string, maxResults int) *Refs {
	return &Refs{blip: b, mode: modeText, pattern: pattern, maxResults: maxResults}
}

func newElementRefs(b *Blip, match ElementMatch, maxResults int) *Refs {
	restrictions := make(map[string]string, len(match.Restrictions))
	for k, v := range match.Restrictions {
		restrictions[k] = v
	}
	match.Restrictions = restrictions
	return &Refs{blip: b, mode: modeElement, elem: match, maxResults: maxResults}
}

func newRangeRefs(b *Blip, begin, end int) *Refs {
	return &Refs{blip: b, mode: modeRange, begin: begin, end: end}
}

// hits starts a fresh iteration over the regions the selector matches.
func (r *Refs) hits() *hitIter {
	it := &hitIter{refs: r}
	if r.mode == modeElement {
		it.indices = r.blip.elementIndices()
	}
	return it
}

// hitIter yields the selector's matched regions one at a time. Yielded
// bounds are raw; normalization and validation happen at the consumer.
type hitIter struct {
	refs    *Refs
	indices []int // candidate offsets, element mode
	pos     int   // next scan offset (text) or candidate cursor (element)
	count   int
	done    bool
}

func (it *hitIter) next() (start, end int, ok bool) {
	if it.done {
		return 0, 0, false
	}
	r := it.refs
	switch r.mode {
	case modeAll:
		it.done = true
		return 0, len(r.blip.content), true

	case modeRange:
		it.done = true
		return r.begin, r.end, true

	case modeText:
		if r.pattern == "" {
			it.done = true
			return 0, 0, false
		}
		pat := []rune(r.pattern)
		idx := runeIndex(r.blip.content, pat, it.pos)
		if idx < 0 {
			it.done = true
			return 0, 0, false
		}
		it.pos = idx + len(pat)
		it.yielded()
		return idx, idx + len(pat), true

	case modeElement:
		for it.pos < len(it.indices) {
			idx := it.indices[it.pos]
			it.pos++
			el, present := r.blip.elements[idx]
			if !present || !el.Matches(r.elem.Type, r.elem.Restrictions) {
				continue
			}
			it.yielded()
			return idx, idx + 1, true
		}
		it.done = true
		return 0, 0, false
	}
	return 0, 0, false
}

// yielded counts a produced hit and stops the iteration once the result cap
// is reached.
func (it *hitIter) yielded() {
	it.count++
	if it.refs.maxResults > 0 && it.count >= it.refs.maxResults {
		it.done = true
	}
}

// params returns the selector half of the change records this selector
// contributes to.
func (r *Refs) params() ops.Params {
	switch r.mode {
	case modeText:
		return ops.Params{Query: &commons.ModifyQuery{
			TextMatch: r.pattern,
			MaxRes:    r.maxResults,
		}}
	case modeElement:
		return ops.Params{Query: &commons.ModifyQuery{
			ElementMatch: string(r.elem.Type),
			Restrictions: r.elem.Restrictions,
			MaxRes:       r.maxResults,
		}}
	case modeRange:
		return ops.Params{Range: &commons.Range{Start: r.begin, End: r.end}}
	default:
		// Whole document: no query at all.
		return ops.Params{}
	}
}

// HasMatch reports whether the selector matches at least one region of the
// current document.
func (r *Refs) HasMatch() bool {
	_, _, ok := r.hits().next()
	return ok
}

// MatchValue is the content under one selector hit: a text span, or the
// element occupying a single-width hit.
type MatchValue struct {
	text string
	el   *element.Element
}

// IsElement reports whether the hit landed on an element.
func (v MatchValue) IsElement() bool { return v.el != nil }

// AsElement returns the matched element, if the hit landed on one.
func (v MatchValue) AsElement() (*element.Element, bool) { return v.el, v.el != nil }

// String returns the matched text. An element hit returns its placeholder
// character.
func (v MatchValue) String() string { return v.text }

// Value resolves the selector's first hit to its content. It fails with
// ErrEmptyMatch when nothing matches and ErrOutOfRange when an explicit
// range lies outside the document.
func (r *Refs) Value() (MatchValue, error) {
	start, end, ok := r.hits().next()
	if !ok {
		return MatchValue{}, ErrEmptyMatch
	}
	return r.blip.valueAt(start, end)
}

// Values resolves every hit to its content, in hit order.
func (r *Refs) Values() ([]MatchValue, error) {
	var vals []MatchValue
	it := r.hits()
	for {
		start, end, ok := it.next()
		if !ok {
			return vals, nil
		}
		v, err := r.blip.valueAt(start, end)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
}

func (b *Blip) valueAt(start, end int) (MatchValue, error) {
	start, end = b.normalizeRange(start, end)
	if err := b.validateRange(start, end); err != nil {
		return MatchValue{}, err
	}
	v := MatchValue{text: string(b.content[start:end])}
	if end-start == 1 {
		v.el = b.elements[start]
	}
	return v, nil
}
