package codegen

import (
	"fmt"
	"regexp"
)

var paramWrapper = regexp.MustCompile(`(?s)^\s*<param\b[^>]*>(.*)</param>\s*$`)

// Param describes a formal parameter for signature and documentation
// generation. The zero value is not valid; use NewParam.
type Param struct {
	name     string
	typeName string
	doc      string
	hasDoc   bool
}

// NewParam creates a Param without documentation.
func NewParam(name, typeName string) (Param, error) {
	if name == "" {
		return Param{}, invalidArgument("NewParam", "name", "must not be empty")
	}
	if typeName == "" {
		return Param{}, invalidArgument("NewParam", "typeName", "must not be empty")
	}
	return Param{name: name, typeName: typeName}, nil
}

// WithDoc returns a copy of p carrying doc. An enclosing <param> element is
// stripped so only its inner text is kept.
func (p Param) WithDoc(doc string) Param {
	p.doc = ExtractParamDoc(doc)
	p.hasDoc = true
	return p
}

func (p Param) Name() string     { return p.name }
func (p Param) TypeName() string { return p.typeName }

// Doc returns the normalized documentation text, if any.
func (p Param) Doc() (string, bool) {
	return p.doc, p.hasDoc
}

// DocString renders the <param> documentation element.
func (p Param) DocString() (string, bool) {
	if !p.hasDoc {
		return "", false
	}
	return fmt.Sprintf(`<param name="%s">%s</param>`, p.name, p.doc), true
}

// ParamString renders the parameter as it appears in a signature.
func (p Param) ParamString() string {
	return p.typeName + " " + p.name
}

// ExtractParamDoc strips an enclosing <param ...>...</param> wrapper from doc.
func ExtractParamDoc(doc string) string {
	if m := paramWrapper.FindStringSubmatch(doc); m != nil {
		return m[1]
	}
	return doc
}
