package filesystem_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/joe/folder-compare/pkg/filesystem"
)

func TestLocalResolver_ReturnsSameFileSystem(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	resolver := filesystem.NewLocalResolver(mock)

	left, leftPath, err := resolver.Resolve("/left")
	g.Expect(err).ShouldNot(HaveOccurred())

	right, rightPath, err := resolver.Resolve("/right")
	g.Expect(err).ShouldNot(HaveOccurred())

	g.Expect(left).Should(BeIdenticalTo(right))
	g.Expect(leftPath).Should(Equal("/left"))
	g.Expect(rightPath).Should(Equal("/right"))
}

func TestURLResolver_LocalPaths(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	resolver := filesystem.NewURLResolver()

	defer func() {
		_ = resolver.Close()
	}()

	left, leftPath, err := resolver.Resolve("/tmp/a")
	g.Expect(err).ShouldNot(HaveOccurred())

	right, _, err := resolver.Resolve("/tmp/b")
	g.Expect(err).ShouldNot(HaveOccurred())

	g.Expect(leftPath).Should(Equal("/tmp/a"))
	g.Expect(left).Should(BeIdenticalTo(right))
	g.Expect(left).Should(BeAssignableToTypeOf(&filesystem.RealFileSystem{}))
}

func TestURLResolver_InvalidURL(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	resolver := filesystem.NewURLResolver()

	_, _, err := resolver.Resolve("sftp://host-without-user/path")
	g.Expect(err).Should(HaveOccurred())
	g.Expect(resolver.Close()).Should(Succeed())
}
