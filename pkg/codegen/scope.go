package codegen

import "strings"

// IndentUnit is one level of indentation in generated source.
const IndentUnit = "    "

// Indent prefixes line with one indentation level. Empty lines stay empty so
// generated files carry no trailing whitespace.
func Indent(line string) string {
	if line == "" {
		return line
	}
	return IndentUnit + line
}

// WithScope wraps lines in a brace-delimited block and indents them one level.
func WithScope(lines []string) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, "{")
	for _, l := range lines {
		out = append(out, Indent(l))
	}
	return append(out, "}")
}

// SplitLines splits text on \n, \r\n or \r.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
