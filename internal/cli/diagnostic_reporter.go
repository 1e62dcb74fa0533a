package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/visitgen/internal/errors"
)

// DiagnosticReporter renders generator errors and warnings for humans
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return NewDiagnosticReporterTo(os.Stderr, verbose)
}

// NewDiagnosticReporterTo creates a reporter writing to out
func NewDiagnosticReporterTo(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: out}
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportWarningError prints err as a warning, with its location when known
func (r *DiagnosticReporter) ReportWarningError(err error) {
	r.ReportWarning(err.Error())
	if r.verbose {
		if ve, ok := errors.AsVisitgenError(err); ok {
			for _, s := range ve.Suggestions() {
				fmt.Fprintf(r.out, "  hint: %s\n", s)
			}
		}
	}
}

// ReportError prints err with its type, location, context and suggestions
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.out, "=============================\n\n")

	if multi, ok := err.(*errors.MultipleErrors); ok && multi.Count() > 1 {
		for i, e := range multi.Errors {
			fmt.Fprintf(r.out, "[%d/%d]\n", i+1, multi.Count())
			r.reportVisitgenError(e)
		}
	} else if ve, ok := errors.AsVisitgenError(err); ok {
		r.reportVisitgenError(ve)
	} else {
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
	}

	r.printAdditionalHelp()
	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) reportVisitgenError(err errors.VisitgenError) {
	r.printErrorHeader(err.ErrorCode())

	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc.String())
	}

	if ctx := err.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	if r.verbose {
		r.printVerboseDebuggingInfo(err)
	}
}

// printErrorHeader prints a formatted error header based on error code
func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	var title string

	switch code {
	case errors.SyntaxErrorCode:
		title = "Syntax Error"
	case errors.NameCollisionErrorCode:
		title = "Name Collision"
	case errors.TemplateErrorCode:
		title = "Template Error"
	case errors.GenerationErrorCode:
		title = "Code Generation Error"
	case errors.FileSystemErrorCode:
		title = "File System Error"
	case errors.ConfigurationErrorCode:
		title = "Configuration Error"
	case errors.InvalidArgumentErrorCode:
		title = "Invalid Argument"
	default:
		title = "Unknown Error"
	}

	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))
}

// printContext prints context entries sorted by key
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

// formatContextKey turns snake_case keys into Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) printAdditionalHelp() {
	fmt.Fprintf(r.out, "For more help:\n")
	fmt.Fprintf(r.out, "  - Run with --verbose for more detailed output\n")
	fmt.Fprintf(r.out, "  - Run with --dry-run to list the files that would be written\n")
}

// printVerboseDebuggingInfo prints the cause chain
func (r *DiagnosticReporter) printVerboseDebuggingInfo(err errors.VisitgenError) {
	fmt.Fprintf(r.out, "Verbose Debug Information:\n")
	fmt.Fprintf(r.out, "  Error Code: %s (%d)\n", err.ErrorCode(), int(err.ErrorCode()))

	if cause := err.Unwrap(); cause != nil {
		fmt.Fprintf(r.out, "  Error Chain:\n")
		level := 1
		for cause != nil {
			fmt.Fprintf(r.out, "    %d. %s\n", level, cause.Error())
			unwrapper, ok := cause.(interface{ Unwrap() error })
			if !ok {
				break
			}
			cause = unwrapper.Unwrap()
			level++
		}
	}

	fmt.Fprintf(r.out, "\n")
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	FilesScanned    int
	FilesSkipped    int
	InterfacesFound int
	ClassesFound    int
	TypesSkipped    int
	Written         int
	Unchanged       int
	GeneratedFiles  []string
	RemovedFiles    []string
}

// Stats returns the summary as diagnostics summary entries
func (s GenerationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Files scanned":        s.FilesScanned,
		"Files skipped":        s.FilesSkipped,
		"Visitable interfaces": s.InterfacesFound,
		"Visitable classes":    s.ClassesFound,
		"Types skipped":        s.TypesSkipped,
		"Artifacts written":    s.Written,
		"Artifacts unchanged":  s.Unchanged,
		"Stale files removed":  len(s.RemovedFiles),
	}
}
