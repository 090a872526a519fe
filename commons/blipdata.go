// Package commons holds the wire shapes shared between the document model
// and the operation queue: snapshots, selector queries and mutation payloads.
package commons

// Range is a half-open [Start, End) span of document offsets, counted in
// code points.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// AnnotationData is the snapshot form of one annotation.
type AnnotationData struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Range Range  `json:"range"`
}

// ElementData is the snapshot form of one inline element.
type ElementData struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// BlipData is the snapshot a blip is constructed from and the shape it
// serializes back to. Elements are keyed by the document offset they occupy.
type BlipData struct {
	BlipID           string              `json:"blipId"`
	WaveID           string              `json:"waveId"`
	WaveletID        string              `json:"waveletId"`
	Content          string              `json:"content"`
	ParentBlipID     string              `json:"parentBlipId,omitempty"`
	ChildBlipIDs     []string            `json:"childBlipIds,omitempty"`
	Creator          string              `json:"creator"`
	Contributors     []string            `json:"contributors,omitempty"`
	LastModifiedTime int64               `json:"lastModifiedTime"`
	Elements         map[int]ElementData `json:"elements,omitempty"`
	Annotations      []AnnotationData    `json:"annotations,omitempty"`
}
