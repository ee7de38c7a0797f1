package operations_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joe/folder-compare/internal/operations"
	"github.com/joe/folder-compare/pkg/filesystem"
)

var _ = Describe("NewResolvedEngine", func() {
	It("builds targets from names in the source directory", func() {
		fs := filesystem.NewMockFileSystem()
		fs.AddFile("/src/a.txt", []byte("a"), modTime)
		fs.AddDir("/src/docs", modTime)
		fs.AddDir("/dst", modTime)

		engine, src, dst, err := operations.NewResolvedEngine(filesystem.NewLocalResolver(fs), "/src", "/dst")
		Expect(err).NotTo(HaveOccurred())
		Expect(src).To(Equal("/src"))
		Expect(dst).To(Equal("/dst"))

		targets := engine.Targets(src, []string{"a.txt", "docs", "missing"})
		Expect(targets).To(Equal([]operations.Target{
			{Name: "a.txt"},
			{Name: "docs", IsDir: true},
			{Name: "missing"},
		}))

		result, err := engine.Copy(targets[:2], src, dst)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Succeeded).To(Equal(2))
		Expect(fs.Exists("/dst/docs")).To(BeTrue())
	})

	It("reports unresolvable paths", func() {
		_, _, _, err := operations.NewResolvedEngine(filesystem.NewURLResolver(), "sftp://no-user-host/x", "/tmp")
		Expect(err).To(MatchError(ContainSubstring("failed to open source")))
	})
})
