package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/visitgen/internal/errors"
)

func TestDiagnosticReporter_ReportError(t *testing.T) {
	syntax := errors.WrapSyntaxError("src/Broken.cs",
		errors.SourceLocation{File: "src/Broken.cs", Line: 3, Column: 7},
		fmt.Errorf("unexpected end of file"))

	tests := []struct {
		name    string
		err     error
		verbose bool
		want    []string
		exclude []string
	}{
		{
			name: "visitgen error",
			err:  syntax,
			want: []string{
				"ERROR: Code Generation Failed",
				"Type: Syntax Error",
				"Location: src/Broken.cs:3:7",
				"Context:\n   Path: src/Broken.cs\n",
				"Suggestions:\n   1. Check the file for unbalanced braces",
				"For more help:",
			},
			exclude: []string{"Verbose Debug Information"},
		},
		{
			name:    "verbose shows the cause chain",
			err:     syntax,
			verbose: true,
			want: []string{
				"Verbose Debug Information:",
				"Error Chain:",
				"unexpected end of file",
			},
		},
		{
			name: "multiple errors are numbered",
			err: func() error {
				multi := errors.NewMultipleErrors()
				multi.Add(errors.NameCollisionError("A.cs", []string{"class N.A", "class M.A"}))
				multi.Add(errors.ConfigurationError("collisions", "must be one of qualify, error"))
				return multi
			}(),
			want: []string{
				"[1/2]\nType: Name Collision",
				"[2/2]\nType: Configuration Error",
				"Field: collisions",
				"2. Use --collisions=qualify",
			},
		},
		{
			name:    "plain error",
			err:     fmt.Errorf("boom"),
			want:    []string{"Message: boom"},
			exclude: []string{"Type:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewDiagnosticReporterTo(&buf, tt.verbose).ReportError(tt.err)

			out := buf.String()
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			for _, exclude := range tt.exclude {
				assert.NotContains(t, out, exclude)
			}
		})
	}
}

func TestDiagnosticReporter_ReportWarningError(t *testing.T) {
	err := errors.WrapSyntaxError("A.cs", errors.SourceLocation{}, fmt.Errorf("bad token"))

	var quiet bytes.Buffer
	NewDiagnosticReporterTo(&quiet, false).ReportWarningError(err)
	assert.Contains(t, quiet.String(), "! A.cs: failed to parse declarations: bad token\n")
	assert.NotContains(t, quiet.String(), "hint:")

	var verbose bytes.Buffer
	NewDiagnosticReporterTo(&verbose, true).ReportWarningError(err)
	assert.Contains(t, verbose.String(), "  hint: Check the file for unbalanced braces or unterminated strings\n")
}

func TestFormatContextKey(t *testing.T) {
	assert.Equal(t, "Path", formatContextKey("path"))
	assert.Equal(t, "Error 0 File", formatContextKey("error_0_file"))
	assert.Equal(t, "", formatContextKey(""))
}

func TestGenerationSummary_Stats(t *testing.T) {
	stats := GenerationSummary{
		FilesScanned: 4,
		Written:      3,
		Unchanged:    1,
		RemovedFiles: []string{"Old.Visitable.cs"},
	}.Stats()

	assert.Equal(t, 4, stats["Files scanned"])
	assert.Equal(t, 3, stats["Artifacts written"])
	assert.Equal(t, 1, stats["Artifacts unchanged"])
	assert.Equal(t, 1, stats["Stale files removed"])
}
