package operations_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joe/folder-compare/internal/operations"
	fcerrors "github.com/joe/folder-compare/pkg/errors"
	"github.com/joe/folder-compare/pkg/filesystem"
)

var modTime = time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC)

var _ = Describe("Engine", func() {
	var (
		fs     *filesystem.MockFileSystem
		engine *operations.Engine
		events []operations.Event
	)

	BeforeEach(func() {
		fs = filesystem.NewMockFileSystem()
		fs.AddDir("/left", modTime)
		fs.AddDir("/right", modTime)

		events = nil
		engine = operations.NewEngine(fs, fs)
		engine.Emitter = operations.EmitterFunc(func(event operations.Event) {
			events = append(events, event)
		})
	})

	content := func(path string) string {
		data, _, err := fs.GetFile(path)
		Expect(err).NotTo(HaveOccurred())

		return string(data)
	}

	Describe("Copy", func() {
		It("overwrites a different file on the destination", func() {
			fs.AddFile("/left/a.txt", []byte("left content"), modTime)
			fs.AddFile("/right/a.txt", []byte("right"), time.Now())

			result, err := engine.Copy([]operations.Target{{Name: "a.txt"}}, "/left", "/right")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(1))
			Expect(result.Failed).To(Equal(0))
			Expect(content("/right/a.txt")).To(Equal("left content"))
		})

		It("recreates a directory subtree", func() {
			fs.AddFile("/left/docs/one.txt", []byte("1"), modTime)
			fs.AddFile("/left/docs/deep/two.txt", []byte("2"), modTime)

			result, err := engine.Copy([]operations.Target{{Name: "docs", IsDir: true}}, "/left", "/right")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(1))
			Expect(content("/right/docs/one.txt")).To(Equal("1"))
			Expect(content("/right/docs/deep/two.txt")).To(Equal("2"))
			Expect(fs.Exists("/left/docs/one.txt")).To(BeTrue())
		})

		It("continues after a failing item", func() {
			fs.AddFile("/left/good.txt", []byte("g"), modTime)
			fs.AddFile("/left/bad.txt", []byte("b"), modTime)
			fs.FailOn(filesystem.OpOpen, "/left/bad.txt", errors.New("permission denied"))

			result, err := engine.Copy([]operations.Target{
				{Name: "bad.txt"}, {Name: "missing.txt"}, {Name: "good.txt"},
			}, "/left", "/right")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(1))
			Expect(result.Failed).To(Equal(2))
			Expect(result.Failures).To(HaveLen(2))
			Expect(result.Failures[0].Name).To(Equal("bad.txt"))
			Expect(content("/right/good.txt")).To(Equal("g"))

			var actionable fcerrors.ActionableError
			Expect(errors.As(result.Failures[0].Err, &actionable)).To(BeTrue())
			Expect(actionable.Category()).To(Equal(fcerrors.CategoryPermission))
		})

		It("emits batch and item events in order", func() {
			fs.AddFile("/left/a.txt", []byte("a"), modTime)

			_, err := engine.Copy([]operations.Target{{Name: "a.txt"}, {Name: "gone.txt"}}, "/left", "/right")
			Expect(err).NotTo(HaveOccurred())

			Expect(events).To(HaveLen(6))
			Expect(events[0]).To(Equal(operations.BatchStarted{Op: operations.OpCopy, Total: 2}))
			Expect(events[1]).To(Equal(operations.ItemStarted{Op: operations.OpCopy, Name: "a.txt", Index: 0}))
			Expect(events[2]).To(Equal(operations.ItemComplete{Op: operations.OpCopy, Name: "a.txt"}))
			Expect(events[3]).To(Equal(operations.ItemStarted{Op: operations.OpCopy, Name: "gone.txt", Index: 1}))
			Expect(events[4]).To(BeAssignableToTypeOf(operations.ItemFailed{}))
			Expect(events[5]).To(BeAssignableToTypeOf(operations.BatchComplete{}))
		})
	})

	Describe("Preconditions", func() {
		It("refuses to copy when the destination is missing", func() {
			fs.AddFile("/left/a.txt", []byte("a"), modTime)

			result, err := engine.Copy([]operations.Target{{Name: "a.txt"}}, "/left", "/nowhere")

			Expect(errors.Is(err, operations.ErrNotDirectory)).To(BeTrue())
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
			Expect(result).To(Equal(operations.Result{}))
			Expect(fs.Exists("/nowhere")).To(BeFalse())
			Expect(events).To(BeEmpty())
		})

		It("refuses to move when the source is a file", func() {
			fs.AddFile("/left/a.txt", []byte("a"), modTime)

			_, err := engine.Move([]operations.Target{{Name: "x"}}, "/left/a.txt", "/right")

			var precondition *operations.PreconditionError
			Expect(errors.As(err, &precondition)).To(BeTrue())
			Expect(precondition.Role).To(Equal("source"))
			Expect(precondition.Path).To(Equal("/left/a.txt"))
		})

		It("refuses to delete from a missing directory", func() {
			_, err := engine.Delete([]operations.Target{{Name: "x"}}, "/missing")
			Expect(errors.Is(err, operations.ErrNotDirectory)).To(BeTrue())
		})
	})

	Describe("Move", func() {
		It("renames a file on the same filesystem", func() {
			fs.AddFile("/left/a.txt", []byte("moved"), modTime)

			result, err := engine.Move([]operations.Target{{Name: "a.txt"}}, "/left", "/right")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(1))
			Expect(fs.Exists("/left/a.txt")).To(BeFalse())
			Expect(content("/right/a.txt")).To(Equal("moved"))
		})

		It("falls back to copy and delete when rename fails", func() {
			fs.AddFile("/left/a.txt", []byte("moved"), modTime)
			fs.FailOn(filesystem.OpRename, "/left/a.txt", errors.New("invalid cross-device link"))

			result, err := engine.Move([]operations.Target{{Name: "a.txt"}}, "/left", "/right")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(1))
			Expect(fs.Exists("/left/a.txt")).To(BeFalse())
			Expect(content("/right/a.txt")).To(Equal("moved"))

			_, mtime, _ := fs.GetFile("/right/a.txt")
			Expect(mtime).To(Equal(modTime))
		})

		It("copies then deletes a directory", func() {
			fs.AddFile("/left/docs/one.txt", []byte("1"), modTime)

			result, err := engine.Move([]operations.Target{{Name: "docs", IsDir: true}}, "/left", "/right")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(1))
			Expect(fs.Exists("/left/docs")).To(BeFalse())
			Expect(content("/right/docs/one.txt")).To(Equal("1"))
		})

		It("moves across filesystems by copying", func() {
			remote := filesystem.NewMockFileSystem()
			remote.AddDir("/remote", modTime)
			fs.AddFile("/left/a.txt", []byte("over the wire"), modTime)

			crossEngine := operations.NewEngine(fs, remote)
			result, err := crossEngine.Move([]operations.Target{{Name: "a.txt"}}, "/left", "/remote")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(1))
			Expect(fs.Exists("/left/a.txt")).To(BeFalse())

			data, _, err := remote.GetFile("/remote/a.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("over the wire"))
		})

		It("leaves the source in place when moving onto itself", func() {
			fs.AddFile("/left/docs/one.txt", []byte("1"), modTime)

			result, err := engine.Move([]operations.Target{{Name: "docs", IsDir: true}}, "/left", "/left")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(1))
			Expect(content("/left/docs/one.txt")).To(Equal("1"))
		})

		It("keeps the source when the copy fails", func() {
			fs.AddFile("/left/a.txt", []byte("stay"), modTime)
			fs.FailOn(filesystem.OpRename, "/left/a.txt", errors.New("invalid cross-device link"))
			fs.FailOn(filesystem.OpCreate, "/right/a.txt", errors.New("no space left on device"))

			result, err := engine.Move([]operations.Target{{Name: "a.txt"}}, "/left", "/right")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Failed).To(Equal(1))
			Expect(content("/left/a.txt")).To(Equal("stay"))
		})
	})

	Describe("Delete", func() {
		It("removes directories bottom-up and files", func() {
			fs.AddFile("/left/docs/deep/two.txt", []byte("2"), modTime)
			fs.AddFile("/left/a.txt", []byte("a"), modTime)
			fs.AddFile("/left/keep.txt", []byte("k"), modTime)

			result, err := engine.Delete([]operations.Target{
				{Name: "docs", IsDir: true}, {Name: "a.txt"},
			}, "/left")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(2))
			Expect(fs.ListFiles()).To(Equal([]string{"/left", "/left/keep.txt", "/right"}))
		})

		It("treats missing targets as deleted", func() {
			result, err := engine.Delete([]operations.Target{
				{Name: "gone.txt"}, {Name: "gone-dir", IsDir: true},
			}, "/left")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Succeeded).To(Equal(2))
			Expect(result.Failed).To(Equal(0))
		})

		It("counts a failing removal", func() {
			fs.AddFile("/left/locked.txt", []byte("l"), modTime)
			fs.FailOn(filesystem.OpRemove, "/left/locked.txt", errors.New("operation not permitted"))

			result, err := engine.Delete([]operations.Target{{Name: "locked.txt"}}, "/left")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Failed).To(Equal(1))
			Expect(result.String()).To(Equal("0 succeeded, 1 failed"))
		})
	})

	Describe("Logging", func() {
		It("logs failed items", func() {
			core, logs := observer.New(zapcore.DebugLevel)
			engine.Logger = zap.New(core)

			_, err := engine.Copy([]operations.Target{{Name: "missing.txt"}}, "/left", "/right")
			Expect(err).NotTo(HaveOccurred())

			Expect(logs.FilterMessage("item failed").Len()).To(Equal(1))
			Expect(logs.FilterMessage("batch complete").Len()).To(Equal(1))
		})
	})
})

var _ = Describe("Local engine", func() {
	It("copies between real directories", func() {
		root := GinkgoT().TempDir()
		left := filepath.Join(root, "left")
		right := filepath.Join(root, "right")
		Expect(os.MkdirAll(left, 0o750)).To(Succeed())
		Expect(os.MkdirAll(right, 0o750)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(left, "a.txt"), []byte("local"), 0o600)).To(Succeed())

		result, err := operations.NewLocalEngine().Copy([]operations.Target{{Name: "a.txt"}}, left, right)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Succeeded).To(Equal(1))

		data, err := os.ReadFile(filepath.Join(right, "a.txt")) // #nosec G304 - test temp dir
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("local"))
	})
})

var _ = Describe("Local engine with linked directories", func() {
	var left, right, linkTarget string

	BeforeEach(func() {
		root := GinkgoT().TempDir()
		left = filepath.Join(root, "left")
		right = filepath.Join(root, "right")
		linkTarget = filepath.Join(root, "target")
		Expect(os.MkdirAll(left, 0o750)).To(Succeed())
		Expect(os.MkdirAll(right, 0o750)).To(Succeed())
		Expect(os.MkdirAll(linkTarget, 0o750)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(linkTarget, "x.txt"), []byte("linked"), 0o600)).To(Succeed())
		Expect(os.Symlink(linkTarget, filepath.Join(left, "linked"))).To(Succeed())
	})

	readRight := func() string {
		data, err := os.ReadFile(filepath.Join(right, "linked", "x.txt")) // #nosec G304 - test temp dir
		Expect(err).NotTo(HaveOccurred())

		return string(data)
	}

	It("copies the contents of a linked directory", func() {
		result, err := operations.NewLocalEngine().Copy(
			[]operations.Target{{Name: "linked", IsDir: true}}, left, right)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Succeeded).To(Equal(1))
		Expect(readRight()).To(Equal("linked"))
	})

	It("moves the contents of a linked directory and keeps the link target", func() {
		result, err := operations.NewLocalEngine().Move(
			[]operations.Target{{Name: "linked", IsDir: true}}, left, right)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Succeeded).To(Equal(1))
		Expect(readRight()).To(Equal("linked"))

		_, err = os.Lstat(filepath.Join(left, "linked"))
		Expect(os.IsNotExist(err)).To(BeTrue())
		Expect(filepath.Join(linkTarget, "x.txt")).To(BeAnExistingFile())
	})
})

var _ = Describe("NewFileLogger", func() {
	It("is a no-op without a path", func() {
		logger, err := operations.NewFileLogger("", "debug")
		Expect(err).NotTo(HaveOccurred())
		Expect(logger.Core().Enabled(zapcore.ErrorLevel)).To(BeFalse())
	})

	It("writes entries at or above the level", func() {
		path := filepath.Join(GinkgoT().TempDir(), "ops.log")

		logger, err := operations.NewFileLogger(path, "warn")
		Expect(err).NotTo(HaveOccurred())

		logger.Info("hidden")
		logger.Warn("shown", zap.String("name", "a.txt"))
		_ = logger.Sync()

		data, err := os.ReadFile(path) // #nosec G304 - test temp dir
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("shown"))
		Expect(string(data)).To(ContainSubstring("a.txt"))
		Expect(string(data)).NotTo(ContainSubstring("hidden"))
	})
})

func TestOperations(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Operations Suite")
}
