// Package blip models a single editable rich-text document in a wave: a
// code point buffer interleaved with inline elements and overlaid with
// keyed, range-scoped annotations. Regions are selected declaratively (by
// text search, element predicate or explicit range) and mutated through a
// fixed set of operations; every mutation also queues one change record for
// the wave service.
//
// A blip and everything hanging off it belong to a single session and are
// not safe for concurrent use.
package blip

import (
	"fmt"
	"sort"

	"github.com/wavekit/wavekit/commons"
	"github.com/wavekit/wavekit/element"
	"github.com/wavekit/wavekit/ops"
)

// elementPlaceholder is the character an element occupies in the content
// buffer.
const elementPlaceholder = ' '

// Blip is one editable document in a wave conversation. It is constructed
// from a service snapshot and mutated in place; a fresh snapshot from the
// service supersedes it.
type Blip struct {
	id           string
	waveID       string
	waveletID    string
	parentID     string
	childIDs     []string
	creator      string
	contributors []string
	lastModified int64

	content     []rune
	elements    map[int]*element.Element
	annotations *Annotations

	registry *Registry
	queue    *ops.Queue
}

// New constructs a blip from a snapshot, registers it with the registry and
// wires it to the operation queue. Both registry and queue must be non-nil;
// they are shared by every blip of a session.
func New(data *commons.BlipData, registry *Registry, queue *ops.Queue) *Blip {
	b := &Blip{
		id:           data.BlipID,
		waveID:       data.WaveID,
		waveletID:    data.WaveletID,
		parentID:     data.ParentBlipID,
		childIDs:     append([]string(nil), data.ChildBlipIDs...),
		creator:      data.Creator,
		contributors: append([]string(nil), data.Contributors...),
		lastModified: data.LastModifiedTime,
		content:      []rune(data.Content),
		elements:     make(map[int]*element.Element, len(data.Elements)),
		annotations:  newAnnotations(),
		registry:     registry,
		queue:        queue,
	}
	for idx, ed := range data.Elements {
		b.elements[idx] = element.FromData(ed)
	}
	for _, ad := range data.Annotations {
		b.annotations.add(ad.Name, ad.Value, ad.Range.Start, ad.Range.End)
	}
	registry.add(b)
	return b
}

// ID returns the blip id.
func (b *Blip) ID() string { return b.id }

// WaveID returns the id of the wave this blip belongs to.
func (b *Blip) WaveID() string { return b.waveID }

// WaveletID returns the id of the wavelet this blip belongs to.
func (b *Blip) WaveletID() string { return b.waveletID }

// Creator returns the participant that created the blip.
func (b *Blip) Creator() string { return b.creator }

// Contributors returns the participants that have edited the blip.
func (b *Blip) Contributors() []string {
	return append([]string(nil), b.contributors...)
}

// LastModifiedTime returns the service-side modification time.
func (b *Blip) LastModifiedTime() int64 { return b.lastModified }

// IsRoot reports whether this blip is the root of its wavelet.
func (b *Blip) IsRoot() bool { return b.parentID == "" }

// ParentBlipID returns the parent blip id, or "" for the root blip.
func (b *Blip) ParentBlipID() string { return b.parentID }

// ParentBlip resolves the parent through the registry. It returns nil for
// the root blip and for a parent that is not loaded.
func (b *Blip) ParentBlip() *Blip {
	if b.parentID == "" {
		return nil
	}
	parent, _ := b.registry.Get(b.parentID)
	return parent
}

// ChildBlipIDs returns the ids of the blip's children.
func (b *Blip) ChildBlipIDs() []string {
	return append([]string(nil), b.childIDs...)
}

// ChildBlips resolves the loaded children through the registry.
func (b *Blip) ChildBlips() []*Blip {
	var children []*Blip
	for _, id := range b.childIDs {
		if child, ok := b.registry.Get(id); ok {
			children = append(children, child)
		}
	}
	return children
}

// Text returns the document content. Element positions hold a placeholder
// character.
func (b *Blip) Text() string { return string(b.content) }

// Len returns the content length in code points.
func (b *Blip) Len() int { return len(b.content) }

// ElementAt returns the element at the offset, if any.
func (b *Blip) ElementAt(idx int) (*element.Element, bool) {
	el, ok := b.elements[idx]
	return el, ok
}

// Elements returns the inline elements in ascending offset order.
func (b *Blip) Elements() []*element.Element {
	indices := b.elementIndices()
	els := make([]*element.Element, len(indices))
	for i, idx := range indices {
		els[i] = b.elements[idx]
	}
	return els
}

// elementIndices returns the occupied element offsets in ascending order.
func (b *Blip) elementIndices() []int {
	indices := make([]int, 0, len(b.elements))
	for idx := range b.elements {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// Annotations returns the annotation store.
func (b *Blip) Annotations() *Annotations { return b.annotations }

// shift propagates a length change of delta at offset where through the
// element table and the annotation store. An element exactly at the shift
// point moves (>=); an annotation bound exactly there is anchored (>). The
// asymmetry decides that text inserted at an annotation's start grows the
// annotation, while an element at an insertion point is pushed along with
// the text.
func (b *Blip) shift(where, delta int) {
	moved := make(map[int]*element.Element, len(b.elements))
	for idx, el := range b.elements {
		if idx >= where {
			idx += delta
		}
		moved[idx] = el
	}
	b.elements = moved
	b.annotations.shift(where, delta)
}

// normalizeRange resolves relative offsets against the current length: a
// negative bound counts back from the end, and an end of 0 paired with a
// negative start stands for the document end, so (-1, 0) addresses the
// final code point.
func (b *Blip) normalizeRange(start, end int) (int, int) {
	n := len(b.content)
	if start < 0 {
		start += n
		if end == 0 {
			end += n
		}
	}
	if end < 0 {
		end += n
	}
	return start, end
}

// validateRange checks normalized offsets against the buffer. An empty
// document admits only the empty range (0, 0).
func (b *Blip) validateRange(start, end int) error {
	n := len(b.content)
	if n == 0 {
		if start != 0 || end != 0 {
			return fmt.Errorf("%w: (%d, %d) on an empty document", ErrOutOfRange, start, end)
		}
		return nil
	}
	if start < 0 || end < 1 || start >= n || end > n {
		return fmt.Errorf("%w: (%d, %d) with length %d", ErrOutOfRange, start, end, n)
	}
	return nil
}

// spliceText replaces content[start:end] with text. Element and annotation
// bookkeeping is the caller's job via shift.
func (b *Blip) spliceText(start, end int, text []rune) {
	out := make([]rune, 0, len(b.content)-(end-start)+len(text))
	out = append(out, b.content[:start]...)
	out = append(out, text...)
	out = append(out, b.content[end:]...)
	b.content = out
}

// runeIndex returns the code point offset of the first occurrence of pat in
// content at or after from, or -1.
func runeIndex(content, pat []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(pat) <= len(content); i++ {
		j := 0
		for j < len(pat) && content[i+j] == pat[j] {
			j++
		}
		if j == len(pat) {
			return i
		}
	}
	return -1
}

// All returns a selector covering the whole document as one region.
func (b *Blip) All() *Refs {
	return newAllRefs(b)
}

// AllText returns a selector matching successive non-overlapping
// occurrences of pattern, at most maxResults of them (<= 0 for unbounded).
// The occurrences are found lazily against the live buffer while a
// mutation runs, each search resuming where the previous match ended.
// An unbounded mutation that leaves pattern at or past the resume point
// keeps matching forever: an Insert of a value at least as long as pattern
// pushes its own match past the resume point, and a Replace whose value
// contains pattern re-matches inside the replacement. Bound maxResults for
// such mutations.
func (b *Blip) AllText(pattern string, maxResults int) *Refs {
	return newTextRefs(b, pattern, maxResults)
}

// FirstText returns a selector matching the first occurrence of pattern.
func (b *Blip) FirstText(pattern string) *Refs {
	return newTextRefs(b, pattern, 1)
}

// AllElements returns a selector matching the elements satisfying match in
// ascending offset order, at most maxResults of them (<= 0 for unbounded).
func (b *Blip) AllElements(match ElementMatch, maxResults int) *Refs {
	return newElementRefs(b, match, maxResults)
}

// FirstElement returns a selector matching the first element satisfying
// match.
func (b *Blip) FirstElement(match ElementMatch) *Refs {
	return newElementRefs(b, match, 1)
}

// At returns a selector for the single position index. Negative indexes
// count back from the end, so At(-1) addresses the last code point.
func (b *Blip) At(index int) *Refs {
	return newRangeRefs(b, index, index+1)
}

// Range returns a selector for the explicit region [start, end).
func (b *Blip) Range(start, end int) *Refs {
	return newRangeRefs(b, start, end)
}

// Append appends one value at the end of the document.
func (b *Blip) Append(v Value) error {
	return b.All().InsertAfter(v)
}

// Reply creates a child blip through the operation queue, registers it and
// links it under this blip. The child carries a temporary id until the
// service assigns the real one.
func (b *Blip) Reply() *Blip {
	data := b.queue.BlipCreateChild(b.waveID, b.waveletID, b.id)
	child := New(data, b.registry, b.queue)
	b.addChildID(child.id)
	return child
}

// InsertInlineBlip creates a child blip anchored at a document position.
func (b *Blip) InsertInlineBlip(position int) (*Blip, error) {
	if position < 0 || position > len(b.content) {
		return nil, fmt.Errorf("%w: inline blip at %d with length %d", ErrOutOfRange, position, len(b.content))
	}
	data := b.queue.DocumentInlineBlipInsert(b.waveID, b.waveletID, b.id, position)
	child := New(data, b.registry, b.queue)
	b.addChildID(child.id)
	return child, nil
}

func (b *Blip) addChildID(id string) {
	for _, existing := range b.childIDs {
		if existing == id {
			return
		}
	}
	b.childIDs = append(b.childIDs, id)
}

// Serialize re-exports the full blip state in the snapshot form.
func (b *Blip) Serialize() *commons.BlipData {
	data := &commons.BlipData{
		BlipID:           b.id,
		WaveID:           b.waveID,
		WaveletID:        b.waveletID,
		Content:          string(b.content),
		ParentBlipID:     b.parentID,
		ChildBlipIDs:     append([]string(nil), b.childIDs...),
		Creator:          b.creator,
		Contributors:     append([]string(nil), b.contributors...),
		LastModifiedTime: b.lastModified,
		Annotations:      b.annotations.Data(),
	}
	if len(b.elements) > 0 {
		data.Elements = make(map[int]commons.ElementData, len(b.elements))
		for idx, el := range b.elements {
			data.Elements[idx] = el.Data()
		}
	}
	return data
}
