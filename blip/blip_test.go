package blip

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wavekit/wavekit/commons"
	"github.com/wavekit/wavekit/element"
	"github.com/wavekit/wavekit/ops"
)

// snapshot builds a minimal root blip snapshot around content.
func snapshot(content string) *commons.BlipData {
	return &commons.BlipData{
		BlipID:    "b+root",
		WaveID:    "w+test",
		WaveletID: "w+test!conv+root",
		Creator:   "alice@example.com",
		Content:   content,
	}
}

// newTestBlip wires a blip to a fresh registry and queue.
func newTestBlip(t *testing.T, data *commons.BlipData) (*Blip, *ops.Queue) {
	t.Helper()
	q := ops.NewQueue()
	b := New(data, NewRegistry(), q)
	return b, q
}

func TestNewSeedsState(t *testing.T) {
	data := snapshot("hello world")
	data.Contributors = []string{"alice@example.com", "bob@example.com"}
	data.LastModifiedTime = 1700000000
	data.Elements = map[int]commons.ElementData{
		5: {Type: "IMAGE", Properties: map[string]string{"url": "http://img"}},
	}
	data.Annotations = []commons.AnnotationData{
		{Name: "style/color", Value: "red", Range: commons.Range{Start: 0, End: 5}},
	}

	b, _ := newTestBlip(t, data)

	if b.ID() != "b+root" || b.WaveID() != "w+test" || b.WaveletID() != "w+test!conv+root" {
		t.Errorf("ids = (%q, %q, %q)", b.ID(), b.WaveID(), b.WaveletID())
	}
	if !b.IsRoot() {
		t.Error("blip without a parent should be root")
	}
	if b.Creator() != "alice@example.com" {
		t.Errorf("creator = %q", b.Creator())
	}
	if got := b.Contributors(); len(got) != 2 {
		t.Errorf("contributors = %v", got)
	}
	if b.LastModifiedTime() != 1700000000 {
		t.Errorf("last modified = %d", b.LastModifiedTime())
	}
	if b.Text() != "hello world" || b.Len() != 11 {
		t.Errorf("content = %q (len %d)", b.Text(), b.Len())
	}
	el, ok := b.ElementAt(5)
	if !ok || el.Type != element.Image {
		t.Errorf("element at 5 = %v, %v", el, ok)
	}
	if !b.Annotations().Has("style/color") {
		t.Error("seeded annotation is missing")
	}
}

func TestElementsAscendingOrder(t *testing.T) {
	data := snapshot("a b c d")
	data.Elements = map[int]commons.ElementData{
		5: {Type: "IMAGE"},
		1: {Type: "BUTTON"},
		3: {Type: "IMAGE"},
	}
	b, _ := newTestBlip(t, data)

	types := []element.Type{}
	for _, el := range b.Elements() {
		types = append(types, el.Type)
	}
	expected := []element.Type{element.Button, element.Image, element.Image}
	if !cmp.Equal(types, expected) {
		t.Errorf("element order mismatch:\n%s", cmp.Diff(expected, types))
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	data := snapshot("hello world")
	data.ParentBlipID = "b+parent"
	data.ChildBlipIDs = []string{"b+child"}
	data.Contributors = []string{"alice@example.com"}
	data.LastModifiedTime = 1700000000
	data.Elements = map[int]commons.ElementData{
		5: {Type: "IMAGE", Properties: map[string]string{"url": "http://img"}},
	}
	data.Annotations = []commons.AnnotationData{
		{Name: "style/color", Value: "red", Range: commons.Range{Start: 0, End: 4}},
		{Name: "style/weight", Value: "bold", Range: commons.Range{Start: 6, End: 11}},
	}

	b, _ := newTestBlip(t, data)

	if got := b.Serialize(); !cmp.Equal(got, data) {
		t.Errorf("serialize mismatch:\n%s", cmp.Diff(data, got))
	}
}

func TestAtNegativeAddressesLastRune(t *testing.T) {
	b, _ := newTestBlip(t, snapshot("hello"))

	v, err := b.At(-1).Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}
	if v.String() != "o" {
		t.Errorf("At(-1) = %q, want o", v.String())
	}
}

func TestAppend(t *testing.T) {
	tests := []struct {
		description string
		content     string
		appended    string
		expected    string
	}{
		{
			description: "append to empty document",
			content:     "",
			appended:    "hi",
			expected:    "hi",
		},
		{
			description: "append to existing content",
			content:     "hello",
			appended:    " world",
			expected:    "hello world",
		},
	}

	for _, tc := range tests {
		b, _ := newTestBlip(t, snapshot(tc.content))
		if err := b.Append(Text(tc.appended)); err != nil {
			t.Fatalf("%s: Append() error: %v", tc.description, err)
		}
		if b.Text() != tc.expected {
			t.Errorf("%s: content = %q, want %q", tc.description, b.Text(), tc.expected)
		}
	}
}

func TestAppendDoesNotExtendTrailingAnnotation(t *testing.T) {
	data := snapshot("hot")
	data.Annotations = []commons.AnnotationData{
		{Name: "style/color", Value: "red", Range: commons.Range{Start: 0, End: 3}},
	}
	b, _ := newTestBlip(t, data)

	if err := b.Append(Text("ter")); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got := b.Annotations().Ranges("style/color")
	expected := []Annotation{{Name: "style/color", Value: "red", Start: 0, End: 3}}
	if !cmp.Equal(got, expected) {
		t.Errorf("annotation grew over appended text:\n%s", cmp.Diff(expected, got))
	}
}

func TestReply(t *testing.T) {
	q := ops.NewQueue()
	reg := NewRegistry()
	parent := New(snapshot("root"), reg, q)

	child := parent.Reply()

	if child.ParentBlipID() != parent.ID() {
		t.Errorf("child parent id = %q, want %q", child.ParentBlipID(), parent.ID())
	}
	if child.ParentBlip() != parent {
		t.Error("child does not resolve its parent through the registry")
	}
	if got := parent.ChildBlipIDs(); len(got) != 1 || got[0] != child.ID() {
		t.Errorf("parent child ids = %v", got)
	}
	if got := parent.ChildBlips(); len(got) != 1 || got[0] != child {
		t.Error("parent does not resolve the child through the registry")
	}
	if reg.Len() != 2 {
		t.Errorf("registry holds %d blips, want 2", reg.Len())
	}

	opsList := q.Operations()
	if len(opsList) != 1 || opsList[0].Method != ops.BlipCreateChild {
		t.Fatalf("queued %v, want one blip.createChild", opsList)
	}
}

func TestInsertInlineBlip(t *testing.T) {
	q := ops.NewQueue()
	reg := NewRegistry()
	parent := New(snapshot("some text"), reg, q)

	child, err := parent.InsertInlineBlip(4)
	if err != nil {
		t.Fatalf("InsertInlineBlip() error: %v", err)
	}
	if child.ParentBlipID() != parent.ID() {
		t.Errorf("child parent id = %q", child.ParentBlipID())
	}

	opsList := q.Operations()
	if len(opsList) != 1 || opsList[0].Method != ops.DocumentInlineBlipInsert {
		t.Fatalf("queued %v, want one document.insertInlineBlip", opsList)
	}
	if opsList[0].Params.Index != 4 {
		t.Errorf("anchor index = %d, want 4", opsList[0].Params.Index)
	}
}

func TestInsertInlineBlipOutOfRange(t *testing.T) {
	q := ops.NewQueue()
	reg := NewRegistry()
	parent := New(snapshot("ab"), reg, q)

	_, err := parent.InsertInlineBlip(3)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("error = %v, want ErrOutOfRange", err)
	}
	if q.Len() != 0 {
		t.Error("failed insert should queue nothing")
	}
	if reg.Len() != 1 {
		t.Error("failed insert should register nothing")
	}
}

func TestRegistrySerialize(t *testing.T) {
	q := ops.NewQueue()
	reg := NewRegistry()
	root := New(snapshot("root"), reg, q)
	child := root.Reply()

	serialized := reg.Serialize()
	if len(serialized) != 2 {
		t.Fatalf("serialized %d blips, want 2", len(serialized))
	}
	if serialized[root.ID()].Content != "root" {
		t.Errorf("root content = %q", serialized[root.ID()].Content)
	}
	if serialized[child.ID()].ParentBlipID != root.ID() {
		t.Errorf("child parent = %q", serialized[child.ID()].ParentBlipID)
	}

	ids := reg.IDs()
	if len(ids) != 2 {
		t.Fatalf("IDs() = %v", ids)
	}
}
