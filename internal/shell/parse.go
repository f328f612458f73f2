package shell

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Parse errors.
var (
	// ErrUnknownCommand indicates the command name is not recognized.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage indicates a required argument is missing or malformed.
	ErrUsage = errors.New("usage")

	// ErrInvalidNumber indicates a numeric argument could not be parsed.
	ErrInvalidNumber = errors.New("invalid number")
)

// ParseError describes why a command line could not be parsed.
// Its message is suitable for showing to the user as is.
type ParseError struct {
	Command string // Command name as typed
	Input   string // Offending argument text
	What    string // What the argument names ("index", "line number")
	Usage   string // Usage line for the command
	Err     error  // ErrUnknownCommand, ErrUsage or ErrInvalidNumber
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnknownCommand):
		return "Unknown command. Type 'h' for help."
	case errors.Is(e.Err, ErrInvalidNumber):
		return "Invalid " + e.What + "."
	case e.Usage != "":
		return "Usage: " + e.Usage
	default:
		return e.Err.Error()
	}
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// argKind describes the arguments a command takes.
type argKind uint8

const (
	argNone      argKind = iota
	argIndex             // one snapshot index
	argLine              // one line number
	argIndexPair         // one or two snapshot indices
	argPath              // a file path
)

// commandDef describes one shell command.
type commandDef struct {
	name  string
	args  argKind
	usage string
	help  string
}

// commandDefs lists the commands in help order.
var commandDefs = []commandDef{
	{"s", argNone, "s", "show current file state"},
	{"t", argNone, "t", "show timeline"},
	{"p", argIndex, "p <index>", "preview state index"},
	{"c", argIndex, "c <index>", "checkout state (branch from past)"},
	{"r", argLine, "r <line_number>", "replace line (will prompt for text)"},
	{"i", argLine, "i <line_number>", "insert before line (will prompt for text)"},
	{"d", argLine, "d <line_number>", "delete line"},
	{"diff", argIndexPair, "diff <index> [index]", "compare two states (default: against head)"},
	{"play", argNone, "play", "play through timeline"},
	{"save", argNone, "save", "save current to disk (creates backup)"},
	{"source", argPath, "source <file.lua>", "run a Lua script against the session"},
	{"q", argNone, "q", "quit"},
	{"h", argNone, "h", "show this help"},
}

func lookupDef(name string) (commandDef, bool) {
	for _, def := range commandDefs {
		if def.name == name {
			return def, true
		}
	}
	return commandDef{}, false
}

// Command is a parsed command line.
type Command struct {
	// Name is the lower-cased command name. Empty for a blank line.
	Name string

	// Args holds the numeric arguments: a snapshot index or line number,
	// and for diff an optional second index.
	Args []int

	// Path is the argument of source.
	Path string
}

// ParseCommand parses one line of shell input. A blank line yields a
// Command with an empty Name and no error.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, nil
	}

	name, rest := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		name, rest = line[:i], strings.TrimSpace(line[i:])
	}
	name = strings.ToLower(name)

	def, ok := lookupDef(name)
	if !ok {
		return Command{}, &ParseError{Command: name, Err: ErrUnknownCommand}
	}

	cmd := Command{Name: name}
	usageErr := &ParseError{Command: name, Usage: def.usage, Err: ErrUsage}

	switch def.args {
	case argIndex, argLine:
		if rest == "" {
			return Command{}, usageErr
		}
		what := "index"
		if def.args == argLine {
			what = "line number"
		}
		n, err := ParseIndex(rest, what)
		if err != nil {
			return Command{}, withUsage(err, name, def.usage)
		}
		cmd.Args = []int{n}

	case argIndexPair:
		fields := strings.Fields(rest)
		if len(fields) == 0 || len(fields) > 2 {
			return Command{}, usageErr
		}
		for _, f := range fields {
			n, err := ParseIndex(f, "index")
			if err != nil {
				return Command{}, withUsage(err, name, def.usage)
			}
			cmd.Args = append(cmd.Args, n)
		}

	case argPath:
		if rest == "" {
			return Command{}, usageErr
		}
		cmd.Path = rest
	}

	return cmd, nil
}

// ParseIndex parses a snapshot index or line number. what names the
// argument in the error message. Negative numbers parse successfully; range
// checks belong to the timeline and buffer.
func ParseIndex(arg, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, &ParseError{Input: arg, What: what, Err: ErrInvalidNumber}
	}
	return n, nil
}

func withUsage(err error, name, usage string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Command = name
		pe.Usage = usage
	}
	return err
}

// HelpText returns the command summary shown by h.
func HelpText() string {
	var sb strings.Builder
	sb.WriteString("\nCommands:\n")
	for _, def := range commandDefs {
		sb.WriteString("  ")
		sb.WriteString(padRight(def.usage, 22))
		sb.WriteString(": ")
		sb.WriteString(def.help)
		sb.WriteString("\n")
	}
	return sb.String()
}
