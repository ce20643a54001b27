package sheet

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tiendc/go-deepcopy"

	"github.com/klytics/sheetkit/internal/address"
)

// ErrMissingName is returned when a sheet is forced before WithName was called.
var ErrMissingName = errors.New("sheet has no name")

// ErrSealed is recorded when an authoring call reaches a builder whose sheet
// has already been forced. The call has no effect on the forced Sheet.
var ErrSealed = errors.New("sheet already built")

// Builder records authoring steps for one sheet. Nothing is materialized until
// the handle returned by Build is forced.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	name    string
	actions []Action

	row    int
	column int
	rows   []Row

	applied int
	forced  bool
	handle  *Lazy
	err     error
}

// HeaderBuilder is the header phase of a Builder, returned by WithHeader.
type HeaderBuilder struct {
	b *Builder
}

// NewBuilder returns an empty builder with the cursor at row 0, column 1.
func NewBuilder() *Builder {
	return &Builder{column: 1}
}

// WithName sets the sheet name. The last call wins.
func (b *Builder) WithName(name string) *Builder {
	if b.reject("WithName") {
		return b
	}
	b.name = name
	return b
}

// WithColumnValue records a data cell at the cursor.
func (b *Builder) WithColumnValue(value any) *Builder {
	b.record(AddCell(value, false))
	return b
}

// WithColumnName records a header cell at the cursor. Header cells carry
// HeaderStyleIndex.
func (b *Builder) WithColumnName(value any) *Builder {
	b.record(AddCell(value, true))
	return b
}

// WithNewLine records a move to the start of the next row.
func (b *Builder) WithNewLine() *Builder {
	b.record(NewLine())
	return b
}

// WithHeader records a new line and switches to the header phase.
func (b *Builder) WithHeader() *HeaderBuilder {
	b.WithNewLine()
	return &HeaderBuilder{b: b}
}

// WithColumnName records a header cell at the cursor.
func (h *HeaderBuilder) WithColumnName(value any) *HeaderBuilder {
	h.b.WithColumnName(value)
	return h
}

// EndHeader returns to the row authoring phase.
func (h *HeaderBuilder) EndHeader() *Builder {
	return h.b
}

// Actions returns a copy of the recorded actions.
func (b *Builder) Actions() []Action {
	out := make([]Action, len(b.actions))
	copy(out, b.actions)
	return out
}

// Name returns the current sheet name.
func (b *Builder) Name() string {
	return b.name
}

// Err returns the first authoring error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the deferred sheet. No recorded action runs until the handle
// is forced, and repeated calls return the same handle.
func (b *Builder) Build() *Lazy {
	if b.handle == nil {
		b.handle = NewLazy(b.force)
	}
	return b.handle
}

func (b *Builder) record(a Action) {
	if b.reject(a.Kind.String()) {
		return
	}
	b.actions = append(b.actions, a)
	log.Debug().Str("sheet", b.name).Stringer("action", a).Int("pending", len(b.actions)).Msg("recorded sheet action")
}

func (b *Builder) reject(op string) bool {
	if !b.forced {
		return false
	}
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s after %q was forced", ErrSealed, op, b.name)
	}
	log.Warn().Str("sheet", b.name).Str("op", op).Msg("ignoring authoring call on forced sheet")
	return true
}

func (b *Builder) force() (*Sheet, error) {
	b.forced = true

	if b.name == "" {
		return nil, ErrMissingName
	}

	for _, a := range b.actions {
		if err := b.apply(a); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", b.name, err)
		}
		b.applied++
	}

	snapshot := &Sheet{Name: b.name}
	if len(b.rows) > 0 {
		if err := deepcopy.Copy(&snapshot.Rows, &b.rows); err != nil {
			return nil, fmt.Errorf("could not snapshot sheet %q: %w", b.name, err)
		}
	}

	log.Debug().Str("sheet", b.name).Int("actions", b.applied).Int("rows", len(snapshot.Rows)).Msg("forced sheet")
	return snapshot, nil
}

func (b *Builder) apply(a Action) error {
	switch a.Kind {
	case ActionNewLine:
		b.row++
		b.column = 1
		return nil
	case ActionAddCell:
		ref, err := address.Reference(b.column, b.row)
		if err != nil {
			return err
		}
		b.appendCell(Cell{
			Column:    b.column,
			Reference: ref,
			Value:     stringify(a.Value),
			Header:    a.Header,
		})
		b.column++
		return nil
	default:
		return fmt.Errorf("unknown action %s", a.Kind)
	}
}

// appendCell adds c to the row at the cursor. The row cursor never moves
// backwards, so only the last row can match.
func (b *Builder) appendCell(c Cell) {
	if n := len(b.rows); n > 0 && b.rows[n-1].Index == b.row {
		b.rows[n-1].Cells = append(b.rows[n-1].Cells, c)
		return
	}
	b.rows = append(b.rows, Row{Index: b.row, Cells: []Cell{c}})
}
