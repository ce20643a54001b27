// Package output provides the JSON result envelope and exit codes shared by
// sheetkit commands.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klytics/sheetkit/cmd/version"
	"github.com/klytics/sheetkit/internal/definition"
	"github.com/klytics/sheetkit/internal/sheet"
	"github.com/klytics/sheetkit/internal/workbook"
)

// Exit codes for consistent error reporting.
const (
	ExitOK          = 0 // success
	ExitUserError   = 1 // bad flags, bad definition, destination exists
	ExitSystemError = 2 // IO error while writing the workbook
)

// JSONResult is the standard JSON output envelope for all commands.
type JSONResult struct {
	OK      bool        `json:"ok"`
	Command string      `json:"command"`
	Version string      `json:"version"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    int         `json:"code,omitempty"`
}

// ExitCode classifies err into one of the exit codes.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, workbook.ErrAlreadyExists),
		errors.Is(err, workbook.ErrMissingPath),
		errors.Is(err, workbook.ErrDuplicateSheet),
		errors.Is(err, sheet.ErrMissingName),
		errors.Is(err, definition.ErrInvalidDefinition):
		return ExitUserError
	default:
		return ExitSystemError
	}
}

// PrintJSON writes a standard success JSON result to w.
func PrintJSON(w io.Writer, cmd string, data interface{}) error {
	result := JSONResult{
		OK:      true,
		Command: cmd,
		Version: version.Version,
		Data:    data,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// PrintJSONError writes a standard error JSON result to w.
func PrintJSONError(w io.Writer, cmd string, err error) error {
	result := JSONResult{
		OK:      false,
		Command: cmd,
		Version: version.Version,
		Error:   err.Error(),
		Code:    ExitCode(err),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(result); encErr != nil {
		return fmt.Errorf("could not encode JSON error: %w", encErr)
	}
	return nil
}
