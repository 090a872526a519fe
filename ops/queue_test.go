package ops

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wavekit/wavekit/commons"
)

func TestDocumentModify(t *testing.T) {
	q := NewQueue()

	params := Params{
		Query:  &commons.ModifyQuery{TextMatch: "hello", MaxRes: 1},
		Action: &commons.ModifyAction{ModifyHow: commons.Replace, Values: []string{"goodbye"}},
	}
	op := q.DocumentModify("w1", "w1!conv", "b1", params)

	if op.Method != DocumentModify {
		t.Errorf("method = %q, want %q", op.Method, DocumentModify)
	}
	if op.WaveID != "w1" || op.WaveletID != "w1!conv" || op.BlipID != "b1" {
		t.Errorf("ids = (%q, %q, %q), want (w1, w1!conv, b1)", op.WaveID, op.WaveletID, op.BlipID)
	}
	if op.ID == "" {
		t.Error("operation id is empty")
	}
	if !cmp.Equal(op.Params, params) {
		t.Errorf("params mismatch:\n%s", cmp.Diff(params, op.Params))
	}
	if q.Len() != 1 {
		t.Errorf("queue length = %d, want 1", q.Len())
	}
}

func TestBlipCreateChild(t *testing.T) {
	q := NewQueue()

	data := q.BlipCreateChild("w1", "w1!conv", "b1")

	if !strings.HasPrefix(data.BlipID, "TBD_") {
		t.Errorf("child blip id %q does not carry the temporary prefix", data.BlipID)
	}
	if data.ParentBlipID != "b1" {
		t.Errorf("parent blip id = %q, want b1", data.ParentBlipID)
	}
	if data.WaveID != "w1" || data.WaveletID != "w1!conv" {
		t.Errorf("wave ids = (%q, %q), want (w1, w1!conv)", data.WaveID, data.WaveletID)
	}

	ops := q.Operations()
	if len(ops) != 1 {
		t.Fatalf("queued %d operations, want 1", len(ops))
	}
	if ops[0].Method != BlipCreateChild {
		t.Errorf("method = %q, want %q", ops[0].Method, BlipCreateChild)
	}
	if ops[0].Params.BlipData != data {
		t.Error("queued operation does not carry the seeded blip data")
	}
}

func TestInlineBlipInsertCarriesPosition(t *testing.T) {
	q := NewQueue()

	q.DocumentInlineBlipInsert("w1", "w1!conv", "b1", 7)

	op := q.Operations()[0]
	if op.Method != DocumentInlineBlipInsert {
		t.Errorf("method = %q, want %q", op.Method, DocumentInlineBlipInsert)
	}
	if op.Params.Index != 7 {
		t.Errorf("index = %d, want 7", op.Params.Index)
	}
	if op.Params.BlipData == nil {
		t.Error("inline blip operation is missing its blip data")
	}
}

func TestOrderAndClear(t *testing.T) {
	q := NewQueue()

	q.DocumentAppendMarkup("w1", "w1!conv", "b1", "<p>one</p>")
	q.DocumentModify("w1", "w1!conv", "b1", Params{})
	q.BlipCreateChild("w1", "w1!conv", "b1")

	methods := make([]Method, 0, q.Len())
	for _, op := range q.Operations() {
		methods = append(methods, op.Method)
	}
	expected := []Method{DocumentAppendMarkup, DocumentModify, BlipCreateChild}
	if !cmp.Equal(methods, expected) {
		t.Errorf("method order mismatch:\n%s", cmp.Diff(expected, methods))
	}

	seen := map[string]bool{}
	for _, op := range q.Operations() {
		if seen[op.ID] {
			t.Errorf("duplicate operation id %q", op.ID)
		}
		seen[op.ID] = true
	}

	q.Clear()
	if q.Len() != 0 {
		t.Errorf("queue length after Clear = %d, want 0", q.Len())
	}
}
