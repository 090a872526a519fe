// Package ops queues locally produced change records for delivery to the
// wave service. The queue is the outbound boundary of the model: every
// document mutation pushes exactly one operation here, and an external
// flusher drains them into remote calls in production order.
package ops

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wavekit/wavekit/commons"
)

// Method names the remote verb an operation translates to.
type Method string

// The remote verbs the model produces.
const (
	DocumentModify           Method = "document.modify"
	DocumentAppendMarkup     Method = "document.appendMarkup"
	DocumentInlineBlipInsert Method = "document.insertInlineBlip"
	BlipCreateChild          Method = "blip.createChild"
)

// tempIDPrefix marks blip ids minted locally; the service replaces them
// when the creating operation is applied.
const tempIDPrefix = "TBD_"

// Params carries the method-specific parameters of an operation. Unused
// fields stay at their zero value and are dropped from the wire form.
type Params struct {
	Query    *commons.ModifyQuery  `json:"modifyQuery,omitempty"`
	Range    *commons.Range        `json:"range,omitempty"`
	Action   *commons.ModifyAction `json:"modifyAction,omitempty"`
	Index    int                   `json:"index"`
	Content  string                `json:"content,omitempty"`
	BlipData *commons.BlipData     `json:"blipData,omitempty"`
}

// Operation is one queued change record.
type Operation struct {
	// ID uniquely identifies the operation within this session.
	ID string `json:"id"`

	Method    Method `json:"method"`
	WaveID    string `json:"waveId"`
	WaveletID string `json:"waveletId"`
	BlipID    string `json:"blipId"`
	Params    Params `json:"params"`
}

// Queue collects operations in the order they were produced. It is not safe
// for concurrent use; a session owns its queue.
type Queue struct {
	ops []*Operation
	log logrus.FieldLogger
}

// NewQueue returns an empty queue. Logging is discarded until SetLogger.
func NewQueue() *Queue {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Queue{log: log}
}

// SetLogger routes the queue's debug logging to the given logger.
func (q *Queue) SetLogger(log logrus.FieldLogger) {
	q.log = log
}

// DocumentModify queues the change record of one document mutation.
func (q *Queue) DocumentModify(waveID, waveletID, blipID string, params Params) *Operation {
	return q.push(DocumentModify, waveID, waveletID, blipID, params)
}

// DocumentAppendMarkup queues an append of raw markup to a document.
func (q *Queue) DocumentAppendMarkup(waveID, waveletID, blipID, markup string) *Operation {
	return q.push(DocumentAppendMarkup, waveID, waveletID, blipID, Params{Content: markup})
}

// BlipCreateChild queues creation of a reply blip under parentID and
// returns the locally seeded snapshot for it.
func (q *Queue) BlipCreateChild(waveID, waveletID, parentID string) *commons.BlipData {
	data := q.newBlipData(waveID, waveletID, parentID)
	q.push(BlipCreateChild, waveID, waveletID, parentID, Params{BlipData: data})
	return data
}

// DocumentInlineBlipInsert queues creation of an inline blip anchored at a
// position in the parent document and returns its seeded snapshot.
func (q *Queue) DocumentInlineBlipInsert(waveID, waveletID, parentID string, position int) *commons.BlipData {
	data := q.newBlipData(waveID, waveletID, parentID)
	q.push(DocumentInlineBlipInsert, waveID, waveletID, parentID, Params{Index: position, BlipData: data})
	return data
}

// newBlipData seeds the snapshot of a locally created blip. The id is
// temporary until the service assigns the real one.
func (q *Queue) newBlipData(waveID, waveletID, parentID string) *commons.BlipData {
	return &commons.BlipData{
		BlipID:       tempIDPrefix + uuid.NewString(),
		WaveID:       waveID,
		WaveletID:    waveletID,
		ParentBlipID: parentID,
	}
}

func (q *Queue) push(method Method, waveID, waveletID, blipID string, params Params) *Operation {
	op := &Operation{
		ID:        uuid.NewString(),
		Method:    method,
		WaveID:    waveID,
		WaveletID: waveletID,
		BlipID:    blipID,
		Params:    params,
	}
	q.ops = append(q.ops, op)
	q.log.WithFields(logrus.Fields{
		"method": method,
		"blip":   blipID,
	}).Debug("operation queued")
	return op
}

// Operations returns the queued operations in production order.
func (q *Queue) Operations() []*Operation {
	return q.ops
}

// Len returns the number of queued operations.
func (q *Queue) Len() int {
	return len(q.ops)
}

// Clear drops every queued operation, for use after a successful flush.
func (q *Queue) Clear() {
	q.ops = nil
}
