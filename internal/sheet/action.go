package sheet

import (
	"fmt"
	"strconv"
)

// ActionKind tags a recorded Action.
type ActionKind int

const (
	// ActionAddCell writes a cell at the cursor and moves the column cursor right.
	ActionAddCell ActionKind = iota
	// ActionNewLine moves the row cursor down and resets the column cursor to 1.
	ActionNewLine
)

func (k ActionKind) String() string {
	switch k {
	case ActionAddCell:
		return "AddCell"
	case ActionNewLine:
		return "NewLine"
	default:
		return "ActionKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Action is one recorded authoring step. Value is converted to its string
// form when the action is replayed, not when it is recorded.
type Action struct {
	Kind   ActionKind
	Header bool
	Value  any
}

// AddCell returns an action that writes value at the cursor.
func AddCell(value any, header bool) Action {
	return Action{Kind: ActionAddCell, Header: header, Value: value}
}

// NewLine returns an action that advances to the next row.
func NewLine() Action {
	return Action{Kind: ActionNewLine}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionAddCell:
		return fmt.Sprintf("AddCell{header=%t, value=%q}", a.Header, stringify(a.Value))
	default:
		return a.Kind.String()
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
