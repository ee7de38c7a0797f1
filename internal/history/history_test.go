//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package history_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/folder-compare/internal/history"
)

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	store, err := history.Open(filepath.Join(t.TempDir(), "nope", "history.yaml"))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(store.Entries()).Should(BeEmpty())
}

func TestPush_FrontDedupAndTruncate(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	store, err := history.Open(filepath.Join(t.TempDir(), "history.yaml"))
	g.Expect(err).ShouldNot(HaveOccurred())

	g.Expect(store.Push("a")).Should(BeTrue())
	g.Expect(store.Push("b")).Should(BeTrue())
	g.Expect(store.Entries()).Should(Equal([]string{"b", "a"}))

	// duplicates do not reorder
	g.Expect(store.Push("a")).Should(BeFalse())
	g.Expect(store.Entries()).Should(Equal([]string{"b", "a"}))

	g.Expect(store.Push("  ")).Should(BeFalse())

	for i := range 12 {
		store.Push(fmt.Sprintf("item-%d", i))
	}

	entries := store.Entries()
	g.Expect(entries).Should(HaveLen(history.MaxItems))
	g.Expect(entries[0]).Should(Equal("item-11"))
	g.Expect(entries[history.MaxItems-1]).Should(Equal("item-2"))
}

func TestSave_RoundTripsThroughDisk(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "config", "history.yaml")

	store, err := history.Open(path)
	g.Expect(err).ShouldNot(HaveOccurred())
	store.Push(history.FormatPair("/l1", "/r1"))
	store.Push(history.FormatPair("/l2", "/r2"))
	g.Expect(store.Save()).Should(Succeed())

	reopened, err := history.Open(path)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(reopened.Entries()).Should(Equal([]string{"/l2 <-> /r2", "/l1 <-> /r1"}))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".history.yaml.*"))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(leftovers).Should(BeEmpty())
}

func TestOpen_SkipsBlankAndTruncates(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "history.yaml")
	content := "entries:\n  - \"\"\n"
	for i := range 12 {
		content += fmt.Sprintf("  - e%d\n", i)
	}
	g.Expect(os.WriteFile(path, []byte(content), 0o600)).Should(Succeed())

	store, err := history.Open(path)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(store.Entries()).Should(HaveLen(history.MaxItems))
	g.Expect(store.Entries()[0]).Should(Equal("e0"))
}

func TestOpen_RejectsGarbage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "history.yaml")
	g.Expect(os.WriteFile(path, []byte("entries: {not: [a list"), 0o600)).Should(Succeed())

	_, err := history.Open(path)
	g.Expect(err).Should(HaveOccurred())
}

func TestParsePair(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	left, right, err := history.ParsePair(history.FormatPair("/a b", "sftp://u@h/c"))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(left).Should(Equal("/a b"))
	g.Expect(right).Should(Equal("sftp://u@h/c"))

	_, _, err = history.ParsePair("just one path")
	g.Expect(errors.Is(err, history.ErrNotPair)).Should(BeTrue())
}
