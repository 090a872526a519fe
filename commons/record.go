package commons

// ModifyHow identifies one of the document mutation kinds.
type ModifyHow string

// The seven mutation kinds a document.modify record can carry.
const (
	Delete          ModifyHow = "DELETE"
	Replace         ModifyHow = "REPLACE"
	Insert          ModifyHow = "INSERT"
	InsertAfter     ModifyHow = "INSERT_AFTER"
	Annotate        ModifyHow = "ANNOTATE"
	ClearAnnotation ModifyHow = "CLEAR_ANNOTATION"
	UpdateElement   ModifyHow = "UPDATE_ELEMENT"
)

// ModifyQuery is the selector half of a change record: how the mutated
// regions were found. A query with neither TextMatch nor ElementMatch set
// denotes the whole document.
type ModifyQuery struct {
	// TextMatch is the searched pattern when the selector was a text search.
	TextMatch string `json:"textMatch,omitempty"`

	// ElementMatch is the element type when the selector was an element search.
	ElementMatch string `json:"elementMatch,omitempty"`

	// Restrictions are the property equality filters of an element search.
	Restrictions map[string]string `json:"restrictions,omitempty"`

	// MaxRes caps the number of matched regions; <= 0 means unbounded.
	MaxRes int `json:"maxRes"`
}

// ModifyAction is the payload half of a change record: what was done to the
// matched regions.
type ModifyAction struct {
	// ModifyHow is the mutation kind that was applied.
	ModifyHow ModifyHow `json:"modifyHow"`

	// Values holds the applied text values, or the annotation values for
	// ANNOTATE.
	Values []string `json:"values,omitempty"`

	// Elements holds the applied element payloads, or the per-region
	// property deltas for UPDATE_ELEMENT.
	Elements []ElementData `json:"elements,omitempty"`

	// AnnotationKey is the annotation name for ANNOTATE and CLEAR_ANNOTATION.
	AnnotationKey string `json:"annotationKey,omitempty"`
}
