//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package compare_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joe/folder-compare/internal/compare"
	"github.com/joe/folder-compare/pkg/filesystem"
)

var t1 = time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)

func TestScan_BlankOrMissingPathIsEmpty(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/file.txt", []byte("x"), t1)

	scanner := compare.NewScanner(fs)
	g.Expect(scanner.Scan("").Len()).Should(BeZero())
	g.Expect(scanner.Scan("   ").Len()).Should(BeZero())
	g.Expect(scanner.Scan("/missing").Len()).Should(BeZero())
	g.Expect(scanner.Scan("/file.txt").Len()).Should(BeZero())
}

func TestScan_CapturesMetadataOfDirectChildren(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/dir/B.txt", []byte("hello"), t1)
	fs.AddDir("/dir/a-sub", t1)
	fs.AddFile("/dir/a-sub/nested.txt", []byte("not listed"), t1)

	listing := compare.NewScanner(fs).Scan("/dir")
	g.Expect(listing.Names()).Should(Equal([]string{"a-sub", "B.txt"}))

	sub, _ := listing.Get("a-sub")
	g.Expect(sub.IsDir).Should(BeTrue())
	g.Expect(sub.HasSize()).Should(BeFalse())
	g.Expect(sub.Size).Should(Equal(compare.SizeNotApplicable))

	file, _ := listing.Get("b.txt")
	g.Expect(file.Name).Should(Equal("B.txt"))
	g.Expect(file.Size).Should(Equal(int64(5)))
	g.Expect(file.ModTime).Should(Equal(t1))
}

func TestScan_OmitsUnreadableChildAndLogs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/dir/ok.txt", []byte("1"), t1)
	fs.AddFile("/dir/broken.txt", []byte("2"), t1)
	fs.FailOn(filesystem.OpStat, "/dir/broken.txt", errors.New("permission denied"))

	core, logs := observer.New(zapcore.DebugLevel)
	scanner := compare.NewScanner(fs)
	scanner.Logger = zap.New(core)

	g.Expect(scanner.Scan("/dir").Names()).Should(Equal([]string{"ok.txt"}))
	g.Expect(logs.FilterMessage("skipping unreadable entry").Len()).Should(Equal(1))
}

func TestScan_EnumerationFailureIsEmpty(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/dir/ok.txt", []byte("1"), t1)
	fs.FailOn(filesystem.OpReadDir, "/dir", errors.New("permission denied"))

	g.Expect(compare.NewScanner(fs).Scan("/dir").Len()).Should(BeZero())
}

func TestScan_FilterExcludesMatchingNames(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/dir/keep.go", nil, t1)
	fs.AddFile("/dir/drop.TMP", nil, t1)
	fs.AddDir("/dir/.git", t1)

	scanner := compare.NewScanner(fs)
	scanner.Filter = compare.NewGlobFilter("*.tmp", ".git", "")

	g.Expect(scanner.Scan("/dir").Names()).Should(Equal([]string{"keep.go"}))
}

func TestScan_OrderedWithoutFoldedDuplicates(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	for _, name := range []string{"zeta", "Alpha", "alpha", "MIDDLE", "beta", "Beta"} {
		fs.AddFile("/dir/"+name, nil, t1)
	}

	names := compare.NewScanner(fs).Scan("/dir").Names()
	g.Expect(names).Should(HaveLen(4))

	for i := 1; i < len(names); i++ {
		g.Expect(strings.ToLower(names[i-1]) < strings.ToLower(names[i])).Should(BeTrue(), names)
	}
}

func TestScanDir_RealFileSystem(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	g.Expect(os.WriteFile(filepath.Join(dir, "a.txt"), []byte("0123456789"), 0o600)).Should(Succeed())
	g.Expect(os.Mkdir(filepath.Join(dir, "Sub"), 0o750)).Should(Succeed())

	listing := compare.ScanDir(dir)
	g.Expect(listing.Names()).Should(Equal([]string{"a.txt", "Sub"}))

	entry, _ := listing.Get("a.txt")
	g.Expect(entry.Size).Should(Equal(int64(10)))
}
