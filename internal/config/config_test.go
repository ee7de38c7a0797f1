//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package config_test

import (
	"errors"
	"testing"

	"github.com/alexflint/go-arg"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/folder-compare/internal/config"
)

func TestParseArgs_DefaultsToTUI(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg, err := config.ParseArgs(nil)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.Command()).Should(Equal("tui"))
	g.Expect(cfg.TUI).ShouldNot(BeNil())
	g.Expect(cfg.LogLevel).Should(Equal(config.LevelInfo))
}

func TestParseArgs_TUIWithPaths(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg, err := config.ParseArgs([]string{"tui", "/a", "/b"})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.TUI.Left).Should(Equal("/a"))
	g.Expect(cfg.TUI.Right).Should(Equal("/b"))
}

func TestParseArgs_Compare(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg, err := config.ParseArgs([]string{
		"--log", "/tmp/fc.log", "--log-level", "DEBUG",
		"compare", "/a", "/b", "--ignore", "*.tmp", "--ignore", ".git", "--human", "--only-diff",
	})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.Command()).Should(Equal("compare"))
	g.Expect(cfg.LogPath).Should(Equal("/tmp/fc.log"))
	g.Expect(cfg.LogLevel).Should(Equal(config.LevelDebug))
	g.Expect(cfg.Compare.Ignore).Should(Equal([]string{"*.tmp", ".git"}))
	g.Expect(cfg.Compare.Human).Should(BeTrue())
	g.Expect(cfg.Compare.OnlyDiff).Should(BeTrue())
}

func TestParseArgs_TransferAndDelete(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg, err := config.ParseArgs([]string{"copy", "/src", "/dst", "a.txt", "docs"})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.Command()).Should(Equal("copy"))
	g.Expect(cfg.Copy.Names).Should(Equal([]string{"a.txt", "docs"}))

	cfg, err = config.ParseArgs([]string{"move", "/src", "/dst", "a.txt"})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.Command()).Should(Equal("move"))

	cfg, err = config.ParseArgs([]string{"delete", "/dir", "a.txt"})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.Command()).Should(Equal("delete"))
	g.Expect(cfg.Delete.Dir).Should(Equal("/dir"))

	cfg, err = config.ParseArgs([]string{"verify", "/l", "/r", "a.txt"})
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.Verify.Name).Should(Equal("a.txt"))
}

func TestParseArgs_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"missing copy names", []string{"copy", "/src", "/dst"}},
		{"name escaping the directory", []string{"delete", "/dir", "../etc"}},
		{"nested name", []string{"copy", "/src", "/dst", "a/b"}},
		{"bad log level", []string{"--log-level", "loud", "history"}},
		{"bad ignore glob", []string{"compare", "/a", "/b", "--ignore", "[abc"}},
		{"blank path", []string{"compare", " ", "/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := config.ParseArgs(tt.args)
			g.Expect(err).Should(HaveOccurred())
		})
	}
}

func TestParseArgs_Help(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := config.ParseArgs([]string{"--help"})
	g.Expect(errors.Is(err, arg.ErrHelp)).Should(BeTrue())
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	level, err := config.ParseLogLevel("Warn")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(level).Should(Equal(config.LevelWarn))

	_, err = config.ParseLogLevel("verbose")
	g.Expect(err).Should(HaveOccurred())
}

func TestValidateNames(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(config.ValidateNames([]string{"a.txt", "My Docs", ".hidden"})).Should(Succeed())
	g.Expect(errors.Is(config.ValidateNames([]string{".."}), config.ErrInvalidName)).Should(BeTrue())
	g.Expect(errors.Is(config.ValidateNames([]string{""}), config.ErrInvalidName)).Should(BeTrue())
}
