package errors

import (
	"fmt"
	"strings"
)

// Common error wrapping patterns used throughout the codebase

// WrapSyntaxError reports a C# file the frontend could not read.
func WrapSyntaxError(path string, loc SourceLocation, cause error) *BaseError {
	if loc.File == "" {
		loc.File = path
	}
	return Wrap(SyntaxErrorCode, "failed to parse declarations", cause).
		WithLocation(loc).
		WithContext("path", path).
		WithSuggestion("Check the file for unbalanced braces or unterminated strings")
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName).
		WithContext("operation", operation)
}

// WrapGenerateError wraps a failure while producing an artifact for symbol.
func WrapGenerateError(kind, symbol string, cause error) *BaseError {
	message := fmt.Sprintf("failed to generate %s for %s", kind, symbol)
	return Wrap(GenerationErrorCode, message, cause).
		WithContext("kind", kind).
		WithContext("symbol", symbol)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(source, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, source)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("source", source).
		WithContext("operation", operation)
}

// ConfigurationError creates a configuration error
func ConfigurationError(field, message string) *BaseError {
	return Newf(ConfigurationErrorCode, "invalid configuration '%s': %s", field, message).
		WithContext("field", field)
}

// NameCollisionError reports two or more artifacts that would be written to
// the same file.
func NameCollisionError(fileName string, symbols []string) *BaseError {
	return Newf(NameCollisionErrorCode, "generated file name '%s' is produced by %s",
		fileName, strings.Join(symbols, ", ")).
		WithContext("file", fileName).
		WithContext("symbols", symbols).
		WithSuggestions(
			"Rename one of the types so their simple names differ",
			"Use --collisions=qualify to prefix colliding file names with their namespace",
		)
}
