// Package config handles command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/joe/folder-compare/internal/compare"
)

// Exported variables.
var (
	ErrMissingPath = errors.New("path is required")
	ErrInvalidName = errors.New("invalid entry name")
)

// LogLevel is the minimum level written to the log file.
type LogLevel string

// Log levels.
const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// ParseLogLevel parses a level name, case-insensitively.
func ParseLogLevel(s string) (LogLevel, error) {
	switch level := LogLevel(strings.ToLower(s)); level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return level, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", s) //nolint:err113 // Validation with guidance
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (l *LogLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseLogLevel(string(text))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}

// TUICmd opens the interactive comparison screen.
type TUICmd struct {
	Left  string `arg:"positional" help:"left directory (path or sftp://user@host/path)"`
	Right string `arg:"positional" help:"right directory"`
}

// CompareCmd prints the paired listing of two directories.
type CompareCmd struct {
	Left     string   `arg:"positional,required" help:"left directory"`
	Right    string   `arg:"positional,required" help:"right directory"`
	Ignore   []string `arg:"--ignore,separate" help:"glob of entry names to leave out (repeatable)"`
	Human    bool     `arg:"--human" help:"show sizes as 1.2 MB instead of bytes"`
	OnlyDiff bool     `arg:"--only-diff" help:"hide identical rows"`
}

// VerifyCmd compares the content of one entry present on both sides.
type VerifyCmd struct {
	Left  string `arg:"positional,required" help:"left directory"`
	Right string `arg:"positional,required" help:"right directory"`
	Name  string `arg:"positional,required" help:"entry name (matched case-insensitively)"`
}

// TransferCmd copies or moves entries from one directory to another.
type TransferCmd struct {
	Source string   `arg:"positional,required" help:"source directory"`
	Dest   string   `arg:"positional,required" help:"destination directory"`
	Names  []string `arg:"positional,required" help:"entries to transfer"`
}

// DeleteCmd deletes entries from a directory.
type DeleteCmd struct {
	Dir   string   `arg:"positional,required" help:"directory holding the entries"`
	Names []string `arg:"positional,required" help:"entries to delete"`
}

// HistoryCmd prints the remembered directory pairs.
type HistoryCmd struct{}

// Config holds the application configuration
type Config struct {
	LogPath     string   `arg:"--log" help:"append an operation log to this file"`
	LogLevel    LogLevel `arg:"--log-level" default:"info" help:"debug|info|warn|error"`
	HistoryPath string   `arg:"--history,env:FOLDER_COMPARE_HISTORY" help:"history file (default: user config dir)"`

	TUI     *TUICmd      `arg:"subcommand:tui" help:"interactive comparison (default)"`
	Compare *CompareCmd  `arg:"subcommand:compare" help:"print the paired listing of two directories"`
	Verify  *VerifyCmd   `arg:"subcommand:verify" help:"byte-compare one entry on both sides"`
	Copy    *TransferCmd `arg:"subcommand:copy" help:"copy entries, overwriting on name collision"`
	Move    *TransferCmd `arg:"subcommand:move" help:"move entries"`
	Delete  *DeleteCmd   `arg:"subcommand:delete" help:"delete entries recursively"`
	History *HistoryCmd  `arg:"subcommand:history" help:"print remembered directory pairs"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Compare two directories side by side and copy, move or delete entries between them"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "folder-compare 1.0.0"
}

// Command returns the name of the selected subcommand.
func (cfg *Config) Command() string {
	switch {
	case cfg.Compare != nil:
		return "compare"
	case cfg.Verify != nil:
		return "verify"
	case cfg.Copy != nil:
		return "copy"
	case cfg.Move != nil:
		return "move"
	case cfg.Delete != nil:
		return "delete"
	case cfg.History != nil:
		return "history"
	default:
		return "tui"
	}
}

// NewParser creates the go-arg parser for cfg.
func NewParser(cfg *Config) (*arg.Parser, error) {
	parser, err := arg.NewParser(arg.Config{Program: "folder-compare"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}

	return parser, nil
}

// ParseFlags parses the process arguments and exits on --help, --version or
// a usage error.
func ParseFlags() (*Config, error) {
	cfg := &Config{LogLevel: LevelInfo}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// ParseArgs parses args (without the program name). It returns arg.ErrHelp
// or arg.ErrVersion when those flags are given.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{LogLevel: LevelInfo}

	parser, err := NewParser(cfg)
	if err != nil {
		return nil, err
	}

	err = parser.Parse(args)
	if err != nil {
		return nil, err //nolint:wrapcheck // Callers compare against arg.ErrHelp and arg.ErrVersion
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	// No subcommand means the interactive screen
	if cfg.Command() == "tui" && cfg.TUI == nil {
		cfg.TUI = &TUICmd{}
	}

	if err := cfg.ValidatePaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidatePaths checks the arguments of the selected subcommand: paths must
// not be blank, entry names must be single path elements, and ignore
// patterns must be valid globs.
func (cfg *Config) ValidatePaths() error {
	switch {
	case cfg.Compare != nil:
		if err := requirePaths("left", cfg.Compare.Left, "right", cfg.Compare.Right); err != nil {
			return err
		}

		if pattern, ok := compare.ValidatePatterns(cfg.Compare.Ignore); !ok {
			return fmt.Errorf("invalid ignore pattern: %q", pattern) //nolint:err113 // Validation with the offending value
		}
	case cfg.Verify != nil:
		if err := requirePaths("left", cfg.Verify.Left, "right", cfg.Verify.Right); err != nil {
			return err
		}

		return ValidateNames([]string{cfg.Verify.Name})
	case cfg.Copy != nil:
		return validateTransfer(cfg.Copy)
	case cfg.Move != nil:
		return validateTransfer(cfg.Move)
	case cfg.Delete != nil:
		if err := requirePaths("directory", cfg.Delete.Dir); err != nil {
			return err
		}

		return ValidateNames(cfg.Delete.Names)
	}

	return nil
}

// ValidateNames rejects names that are blank or not a single path element.
func ValidateNames(names []string) error {
	for _, name := range names {
		if strings.TrimSpace(name) == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%q: %w", name, ErrInvalidName)
		}
	}

	return nil
}

func validateTransfer(cmd *TransferCmd) error {
	if err := requirePaths("source", cmd.Source, "destination", cmd.Dest); err != nil {
		return err
	}

	return ValidateNames(cmd.Names)
}

// requirePaths takes (role, path) pairs and fails on the first blank path.
func requirePaths(rolesAndPaths ...string) error {
	for i := 0; i+1 < len(rolesAndPaths); i += 2 {
		if strings.TrimSpace(rolesAndPaths[i+1]) == "" {
			return fmt.Errorf("%s %w", rolesAndPaths[i], ErrMissingPath)
		}
	}

	return nil
}
