package codegen

import (
	"fmt"
	"strings"
)

const docPrefix = "///"

// DocEntry is a named documentation fragment: a parameter, a type parameter
// or an exception type.
type DocEntry struct {
	Name string
	Doc  string
}

// DocBuilder accumulates the parts of an XML documentation comment and
// renders them as "///" lines.
//
// DocBuilder is an immutable value: every With method returns a new builder
// and leaves the receiver untouched, so a partially configured builder can be
// reused as a template. Invalid input is recorded as a sticky error; once set,
// further With calls return the builder unchanged and Compile reports the
// error.
type DocBuilder struct {
	summary    []string
	typeParams []DocEntry
	params     []DocEntry
	returns    []string
	hasReturns bool
	exceptions []exceptionDoc
	remarks    []string
	hasRemarks bool
	err        error
}

type exceptionDoc struct {
	name  string
	lines []string
}

// NewDocBuilder returns an empty builder. The zero value is equally usable.
func NewDocBuilder() DocBuilder {
	return DocBuilder{}
}

// Err returns the first invalid argument recorded by the builder.
func (b DocBuilder) Err() error {
	return b.err
}

// WithSummary replaces the summary. Multi-line text is split into lines.
func (b DocBuilder) WithSummary(summary string) DocBuilder {
	if b.err != nil {
		return b
	}
	b.summary = SplitLines(summary)
	return b
}

// WithSummaryLines replaces the summary with explicit lines.
func (b DocBuilder) WithSummaryLines(lines ...string) DocBuilder {
	if b.err != nil {
		return b
	}
	if err := checkLines("DocBuilder.WithSummaryLines", "lines", lines); err != nil {
		return b.fail(err)
	}
	b.summary = cloneStrings(lines)
	return b
}

// WithTypeParam appends a <typeparam> entry.
func (b DocBuilder) WithTypeParam(name, doc string) DocBuilder {
	return b.WithTypeParams(DocEntry{Name: name, Doc: doc})
}

// WithTypeParams appends <typeparam> entries in order.
func (b DocBuilder) WithTypeParams(entries ...DocEntry) DocBuilder {
	if b.err != nil {
		return b
	}
	if err := checkEntries("DocBuilder.WithTypeParams", entries); err != nil {
		return b.fail(err)
	}
	b.typeParams = appendCopy(b.typeParams, entries...)
	return b
}

// WithParam appends a <param> entry. A <param> wrapper around doc is removed.
func (b DocBuilder) WithParam(name, doc string) DocBuilder {
	return b.WithParams(DocEntry{Name: name, Doc: doc})
}

// WithParams appends <param> entries in order.
func (b DocBuilder) WithParams(entries ...DocEntry) DocBuilder {
	if b.err != nil {
		return b
	}
	if err := checkEntries("DocBuilder.WithParams", entries); err != nil {
		return b.fail(err)
	}
	normalized := make([]DocEntry, len(entries))
	for i, e := range entries {
		normalized[i] = DocEntry{Name: e.Name, Doc: ExtractParamDoc(e.Doc)}
	}
	b.params = appendCopy(b.params, normalized...)
	return b
}

// WithParamDocs appends a <param> entry for every documented param. Params
// without documentation are ignored.
func (b DocBuilder) WithParamDocs(params ...Param) DocBuilder {
	var entries []DocEntry
	for _, p := range params {
		if doc, ok := p.Doc(); ok {
			entries = append(entries, DocEntry{Name: p.Name(), Doc: doc})
		}
	}
	return b.WithParams(entries...)
}

// WithReturns sets the <returns> block. Multi-line text is split into lines.
func (b DocBuilder) WithReturns(returns string) DocBuilder {
	if b.err != nil {
		return b
	}
	b.returns = SplitLines(returns)
	b.hasReturns = true
	return b
}

// WithReturnsLines sets the <returns> block from explicit lines.
func (b DocBuilder) WithReturnsLines(lines ...string) DocBuilder {
	if b.err != nil {
		return b
	}
	if err := checkLines("DocBuilder.WithReturnsLines", "lines", lines); err != nil {
		return b.fail(err)
	}
	b.returns = cloneStrings(lines)
	b.hasReturns = true
	return b
}

// WithException appends an <exception> entry. name is the cref of the
// exception type; doc may span several lines.
func (b DocBuilder) WithException(name, doc string) DocBuilder {
	return b.WithExceptions(DocEntry{Name: name, Doc: doc})
}

// WithExceptions appends <exception> entries in order.
func (b DocBuilder) WithExceptions(entries ...DocEntry) DocBuilder {
	if b.err != nil {
		return b
	}
	if err := checkEntries("DocBuilder.WithExceptions", entries); err != nil {
		return b.fail(err)
	}
	added := make([]exceptionDoc, len(entries))
	for i, e := range entries {
		added[i] = exceptionDoc{name: e.Name, lines: SplitLines(e.Doc)}
	}
	b.exceptions = appendCopy(b.exceptions, added...)
	return b
}

// WithRemarks sets the <remarks> block. Multi-line text is split into lines.
func (b DocBuilder) WithRemarks(remarks string) DocBuilder {
	if b.err != nil {
		return b
	}
	b.remarks = SplitLines(remarks)
	b.hasRemarks = true
	return b
}

// WithRemarksLines sets the <remarks> block from explicit lines.
func (b DocBuilder) WithRemarksLines(lines ...string) DocBuilder {
	if b.err != nil {
		return b
	}
	if err := checkLines("DocBuilder.WithRemarksLines", "lines", lines); err != nil {
		return b.fail(err)
	}
	b.remarks = cloneStrings(lines)
	b.hasRemarks = true
	return b
}

// Compile renders the documentation block. The summary is always present;
// returns and remarks only when they were set.
func (b DocBuilder) Compile() ([]string, error) {
	if b.err != nil {
		return nil, b.err
	}

	out := docBlock(nil, "summary", b.summary)
	for _, tp := range b.typeParams {
		out = docText(out, fmt.Sprintf(`<typeparam name="%s">%s</typeparam>`, tp.Name, tp.Doc))
	}
	for _, p := range b.params {
		out = docText(out, fmt.Sprintf(`<param name="%s">%s</param>`, p.Name, p.Doc))
	}
	if b.hasReturns {
		out = docBlock(out, "returns", b.returns)
	}
	for _, e := range b.exceptions {
		out = docLine(out, fmt.Sprintf(`<exception cref="%s">`, e.name))
		for _, l := range e.lines {
			out = docLine(out, l)
		}
		out = docLine(out, "</exception>")
	}
	if b.hasRemarks {
		out = docBlock(out, "remarks", b.remarks)
	}
	return out, nil
}

func (b DocBuilder) fail(err error) DocBuilder {
	b.err = err
	return b
}

func docBlock(out []string, tag string, lines []string) []string {
	out = docLine(out, "<"+tag+">")
	for _, l := range lines {
		out = docLine(out, l)
	}
	return docLine(out, "</"+tag+">")
}

// docText renders text that may contain line breaks, one "///" line each.
func docText(out []string, text string) []string {
	for _, l := range SplitLines(text) {
		out = docLine(out, l)
	}
	return out
}

func docLine(out []string, line string) []string {
	if line == "" {
		return append(out, docPrefix)
	}
	return append(out, docPrefix+" "+line)
}

func checkEntries(op string, entries []DocEntry) error {
	for i, e := range entries {
		if e.Name == "" {
			return invalidArgument(op, fmt.Sprintf("entries[%d].Name", i), "must not be empty")
		}
	}
	return nil
}

func checkLines(op, arg string, lines []string) error {
	for i, l := range lines {
		if strings.ContainsAny(l, "\r\n") {
			return invalidArgument(op, fmt.Sprintf("%s[%d]", arg, i), "must not contain a line break")
		}
	}
	return nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string(nil), s...)
}

// appendCopy appends to a fresh backing array so builders derived from the
// same value never share storage.
func appendCopy[T any](s []T, items ...T) []T {
	out := make([]T, 0, len(s)+len(items))
	out = append(out, s...)
	return append(out, items...)
}
