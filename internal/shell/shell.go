// Package shell provides an interactive REPL for authoring workbooks one
// line at a time.
package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/sheet"
	"github.com/klytics/sheetkit/internal/workbook"
)

// Session holds the sheet being authored and the sheets queued for the
// next build.
type Session struct {
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time

	policy      workbook.OverwritePolicy
	headerStyle xlsx.Style
	current     *sheet.Builder
	queued      []queuedSheet
}

type queuedSheet struct {
	name   string
	handle *sheet.Lazy
}

var commands = []string{
	"name", "header", "value", "row", "newline", "actions",
	"sheet", "drop", "status", "overwrite", "build", "help", "history", "exit", "quit",
}

// NewSession creates a session whose builds use policy and headerStyle.
func NewSession(policy workbook.OverwritePolicy, headerStyle xlsx.Style) *Session {
	home, _ := os.UserHomeDir()
	s := &Session{
		HistoryFile: filepath.Join(home, ".sheetkit", "shell_history"),
		StartTime:   time.Now(),
		policy:      policy,
		headerStyle: headerStyle,
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.current = sheet.NewBuilder()
	s.queued = nil
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run(ctx context.Context) error {
	os.MkdirAll(filepath.Dir(s.HistoryFile), 0755)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sheetkit> ",
		HistoryFile:     s.HistoryFile,
		AutoComplete:    s.buildCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("sheetkit — interactive workbook shell")
	fmt.Println("Type 'help' for commands, 'exit' to quit.")
	fmt.Println()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.CommandHistory = append(s.CommandHistory, line)

		switch line {
		case "exit", "quit":
			fmt.Printf("\nSession ended. %d commands in %s.\n",
				len(s.CommandHistory)-1, formatDuration(time.Since(s.StartTime)))
			return nil
		case "history":
			for i, cmd := range s.CommandHistory {
				fmt.Printf("  %d  %s\n", i+1, cmd)
			}
			continue
		}

		out, err := s.Eval(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			continue
		}
		if out != "" {
			fmt.Println(strings.TrimRight(out, "\n"))
		}
	}

	return nil
}

// Eval runs one shell command and returns its output.
func (s *Session) Eval(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "name":
		if len(rest) == 0 {
			return "", fmt.Errorf("usage: name <sheet name>")
		}
		s.current.WithName(strings.Join(rest, " "))
		return fmt.Sprintf("Sheet name: %s", s.current.Name()), nil

	case "header":
		for _, v := range rest {
			s.current.WithColumnName(v)
		}
		return s.pending(), nil

	case "value":
		for _, v := range rest {
			s.current.WithColumnValue(v)
		}
		return s.pending(), nil

	case "row":
		for _, v := range rest {
			s.current.WithColumnValue(v)
		}
		s.current.WithNewLine()
		return s.pending(), nil

	case "newline":
		s.current.WithNewLine()
		return s.pending(), nil

	case "actions":
		var sb strings.Builder
		for i, a := range s.current.Actions() {
			sb.WriteString(fmt.Sprintf("  %d  %s\n", i+1, a))
		}
		if sb.Len() == 0 {
			return "No actions recorded.", nil
		}
		return sb.String(), nil

	case "sheet":
		return s.queueCurrent()

	case "drop":
		if len(rest) == 0 {
			return "", fmt.Errorf("usage: drop <sheet name>")
		}
		return s.drop(strings.Join(rest, " "))

	case "status":
		return fmt.Sprintf("Current sheet: %q (%d actions)\nQueued sheets: %s\nOverwrite: %s",
			s.current.Name(), len(s.current.Actions()), strings.Join(s.queuedNames(), ", "), s.policy), nil

	case "overwrite":
		if len(rest) != 1 {
			return "", fmt.Errorf("usage: overwrite on|off")
		}
		switch rest[0] {
		case "on":
			s.policy = workbook.Overwrite
		case "off":
			s.policy = workbook.FailIfExists
		default:
			return "", fmt.Errorf("usage: overwrite on|off")
		}
		return fmt.Sprintf("Overwrite: %s", s.policy), nil

	case "build":
		if len(rest) != 1 {
			return "", fmt.Errorf("usage: build <path.xlsx>")
		}
		return s.build(rest[0])

	case "help":
		return helpText, nil
	}

	return "", fmt.Errorf("unknown command %q — type 'help' for commands", cmd)
}

func (s *Session) pending() string {
	return fmt.Sprintf("%d action(s) recorded", len(s.current.Actions()))
}

func (s *Session) queueCurrent() (string, error) {
	if s.current.Name() == "" {
		return "", fmt.Errorf("current sheet has no name — use 'name <sheet name>' first")
	}
	name := s.current.Name()
	n := len(s.current.Actions())

	s.queued = append(s.queued, queuedSheet{name: name, handle: s.current.Build()})
	s.current = sheet.NewBuilder()

	log.Debug().Str("sheet", name).Int("actions", n).Msg("queued sheet from shell")
	return fmt.Sprintf("Queued sheet %q (%d actions)", name, n), nil
}

func (s *Session) queuedNames() []string {
	names := make([]string, len(s.queued))
	for i, q := range s.queued {
		names[i] = q.name
	}
	return names
}

func (s *Session) drop(name string) (string, error) {
	for i, q := range s.queued {
		if q.name == name {
			s.queued = append(s.queued[:i], s.queued[i+1:]...)
			return fmt.Sprintf("Dropped sheet %q", name), nil
		}
	}
	return "", fmt.Errorf("no queued sheet named %q", name)
}

// build writes every queued sheet. A failed build keeps the queue so the
// sheets can be fixed up with 'drop' and built again.
func (s *Session) build(path string) (string, error) {
	if s.current.Name() != "" || len(s.current.Actions()) > 0 {
		if _, err := s.queueCurrent(); err != nil {
			return "", err
		}
	}

	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}

	book := workbook.NewBuilder().
		WithOverwritePolicy(s.policy).
		WithHeaderStyle(s.headerStyle).
		WithPath(path)
	for _, q := range s.queued {
		book.WithSheet(q.handle)
	}

	m, err := book.Build()
	if err != nil {
		return "", fmt.Errorf("%w (queued sheets kept: %s)", err, strings.Join(s.queuedNames(), ", "))
	}
	s.reset()

	return fmt.Sprintf("Wrote %s (%d sheets, %d rows)", m.Path, len(m.Sheets), m.RowCount()), nil
}

const helpText = `Authoring:
  name <name>       — set the current sheet's name
  header <v...>     — header cells at the cursor (styled)
  value <v...>      — data cells at the cursor
  row <v...>        — data cells, then a new line
  newline           — move to the next row
  actions           — list recorded actions for the current sheet
  sheet             — finish the current sheet and queue it
  drop <name>       — remove a queued sheet

Workbook:
  overwrite on|off  — replace or keep an existing output file
  status            — show the current and queued sheets
  build <path>      — write the workbook (queues the current sheet)

Shell:
  history           — show command history
  exit              — exit the shell`

func (s *Session) buildCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		if cmd == "overwrite" {
			items = append(items, readline.PcItem(cmd, readline.PcItem("on"), readline.PcItem("off")))
			continue
		}
		items = append(items, readline.PcItem(cmd))
	}
	return readline.NewPrefixCompleter(items...)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
