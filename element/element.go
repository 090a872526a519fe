// Package element models the non-text objects embedded in a blip: gadgets,
// images, attachments, form fields and friends. An element occupies exactly
// one document position and carries a flat string property map.
package element

import "github.com/wavekit/wavekit/commons"

// Type identifies an element kind.
type Type string

// The element kinds.
const (
	Attachment Type = "ATTACHMENT"
	Gadget     Type = "GADGET"
	Image      Type = "IMAGE"
	InlineBlip Type = "INLINE_BLIP"
	Installer  Type = "INSTALLER"
	Line       Type = "LINE"

	Button           Type = "BUTTON"
	Check            Type = "CHECK"
	Input            Type = "INPUT"
	Label            Type = "LABEL"
	Password         Type = "PASSWORD"
	RadioButton      Type = "RADIO_BUTTON"
	RadioButtonGroup Type = "RADIO_BUTTON_GROUP"
	TextBox          Type = "TEXTBOX"
)

// IsFormElement reports whether typ is one of the form field kinds.
func IsFormElement(typ Type) bool {
	switch typ {
	case Button, Check, Input, Label, Password, RadioButton, RadioButtonGroup, TextBox:
		return true
	}
	return false
}

// Element is one inline non-text object. In document content it renders as
// a single placeholder character.
type Element struct {
	Type       Type
	Properties map[string]string
}

// New returns an element of the given kind carrying a copy of props.
func New(typ Type, props map[string]string) *Element {
	e := &Element{Type: typ, Properties: make(map[string]string, len(props))}
	for k, v := range props {
		e.Properties[k] = v
	}
	return e
}

// NewGadget returns a gadget element pointing at the manifest url. Extra
// gadget state goes in props.
func NewGadget(url string, props map[string]string) *Element {
	e := New(Gadget, props)
	e.Properties["url"] = url
	return e
}

// NewImage returns an image element.
func NewImage(url, caption string) *Element {
	return New(Image, map[string]string{"url": url, "caption": caption})
}

// NewAttachment returns an attachment element.
func NewAttachment(attachmentID, caption string) *Element {
	return New(Attachment, map[string]string{"attachmentId": attachmentID, "caption": caption})
}

// NewLine returns a line break element. lineType distinguishes headings,
// list items and plain breaks.
func NewLine(lineType string) *Element {
	return New(Line, map[string]string{"lineType": lineType})
}

// NewInlineBlip returns the anchor element of an inline blip.
func NewInlineBlip(blipID string) *Element {
	return New(InlineBlip, map[string]string{"id": blipID})
}

// NewInstaller returns an extension installer element.
func NewInstaller(manifest string) *Element {
	return New(Installer, map[string]string{"manifest": manifest})
}

// NewFormElement returns a form field of the given kind. Non-form kinds are
// fine too; the helper just names the common case.
func NewFormElement(typ Type, name, value string) *Element {
	return New(typ, map[string]string{"name": name, "value": value})
}

// Property returns the named property. The second result is false when the
// element does not carry the key.
func (e *Element) Property(key string) (string, bool) {
	v, ok := e.Properties[key]
	return v, ok
}

// Matches reports whether the element is of kind typ and satisfies every
// restriction exactly. A restriction key the element does not carry never
// matches, even against an empty value.
func (e *Element) Matches(typ Type, restrictions map[string]string) bool {
	if e.Type != typ {
		return false
	}
	for key, want := range restrictions {
		got, ok := e.Properties[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// ApplyUpdate merges the property delta into the element in place. Existing
// keys are overwritten, missing keys are added.
func (e *Element) ApplyUpdate(props map[string]string) {
	if e.Properties == nil {
		e.Properties = make(map[string]string, len(props))
	}
	for k, v := range props {
		e.Properties[k] = v
	}
}

// FromData builds an element from its snapshot form.
func FromData(d commons.ElementData) *Element {
	return New(Type(d.Type), d.Properties)
}

// Data returns the snapshot form of the element. The property map is a
// copy; mutating it does not affect the element.
func (e *Element) Data() commons.ElementData {
	props := make(map[string]string, len(e.Properties))
	for k, v := range e.Properties {
		props[k] = v
	}
	return commons.ElementData{Type: string(e.Type), Properties: props}
}
