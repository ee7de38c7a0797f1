//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package compare_test

import (
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/folder-compare/internal/compare"
)

func TestNewListing_OrdersCaseInsensitively(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	listing := compare.NewListing([]compare.Entry{
		{Name: "beta"},
		{Name: "Alpha"},
		{Name: "gamma"},
		{Name: "Beta2"},
	})

	g.Expect(listing.Names()).Should(Equal([]string{"Alpha", "beta", "Beta2", "gamma"}))
	g.Expect(listing.Len()).Should(Equal(4))
}

func TestNewListing_KeepsFirstOfSameFoldedName(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	listing := compare.NewListing([]compare.Entry{
		{Name: "readme", Size: 2},
		{Name: "README", Size: 1},
	})

	g.Expect(listing.Names()).Should(Equal([]string{"README"}))

	entry, ok := listing.Get("ReadMe")
	g.Expect(ok).Should(BeTrue())
	g.Expect(entry.Size).Should(Equal(int64(1)))
}

func TestNewListing_BreaksFoldedTiesByRawName(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	entries := []compare.Entry{
		{Name: "b"},
		{Name: "C"},
		{Name: "a"},
		{Name: "B"},
		{Name: "A"},
		{Name: "c"},
	}

	listing := compare.NewListing(entries)

	g.Expect(listing.Names()).Should(Equal([]string{"A", "B", "C"}))
	g.Expect(entries[0].Name).Should(Equal("b"))
}

func TestListing_GetIgnoresCase(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	listing := compare.NewListing([]compare.Entry{{Name: "File.TXT", Size: 3, ModTime: time.Unix(5, 0)}})

	entry, ok := listing.Get("file.txt")
	g.Expect(ok).Should(BeTrue())
	g.Expect(entry.Name).Should(Equal("File.TXT"))

	_, ok = listing.Get("other")
	g.Expect(ok).Should(BeFalse())
}

func TestListing_NilIsEmpty(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var listing *compare.Listing

	g.Expect(listing.Len()).Should(BeZero())
	g.Expect(listing.Entries()).Should(BeEmpty())
	g.Expect(listing.Names()).Should(BeEmpty())
}
