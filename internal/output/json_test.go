package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/klytics/sheetkit/internal/definition"
	"github.com/klytics/sheetkit/internal/sheet"
	"github.com/klytics/sheetkit/internal/workbook"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{fmt.Errorf("wrapped: %w", workbook.ErrAlreadyExists), ExitUserError},
		{workbook.ErrMissingPath, ExitUserError},
		{fmt.Errorf("sheet 2: %w", workbook.ErrDuplicateSheet), ExitUserError},
		{fmt.Errorf("sheet 1: %w", sheet.ErrMissingName), ExitUserError},
		{definition.ErrInvalidDefinition, ExitUserError},
		{errors.New("disk full"), ExitSystemError},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, "build", map[string]int{"sheets": 2}); err != nil {
		t.Fatal(err)
	}

	var res JSONResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Command != "build" || res.Version == "" {
		t.Errorf("unexpected envelope: %+v", res)
	}
}

func TestPrintJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := fmt.Errorf("%w: out.xlsx", workbook.ErrAlreadyExists)
	if err := PrintJSONError(&buf, "build", err); err != nil {
		t.Fatal(err)
	}

	var res JSONResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Error("expected ok=false")
	}
	if res.Code != ExitUserError {
		t.Errorf("code = %d, want %d", res.Code, ExitUserError)
	}
}
