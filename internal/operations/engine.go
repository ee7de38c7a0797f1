// Package operations runs batch copy, move and delete operations between two
// directories. Every target is handled on its own: a failing target is counted,
// enriched with suggestions and logged, and the batch carries on. Nothing is
// rolled back and nothing is retried.
package operations

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/joe/folder-compare/pkg/errors"
	"github.com/joe/folder-compare/pkg/fileops"
	"github.com/joe/folder-compare/pkg/filesystem"
)

// Op names a batch operation.
type Op string

// Batch operations.
const (
	OpCopy   Op = "copy"
	OpMove   Op = "move"
	OpDelete Op = "delete"
)

// Target is one entry selected for an operation, named relative to the
// batch's source (or delete) directory.
type Target struct {
	Name  string
	IsDir bool
}

// Failure records why a target failed. Err is an errors.ActionableError.
type Failure struct {
	Name string
	Err  error
}

// Result reports the outcome of a batch.
type Result struct {
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Engine performs batch operations. Source paths are read from the source
// filesystem and destination paths written to the destination filesystem;
// Delete works on the source filesystem.
// Calls are synchronous and an Engine is not safe for concurrent batches.
type Engine struct {
	ops      *fileops.FileOps
	enricher errors.Enricher

	// Logger receives one entry per item and per batch. Defaults to a no-op logger.
	Logger *zap.Logger

	// Emitter, when set, receives progress events.
	Emitter EventEmitter
}

// NewEngine creates an engine copying from srcFS to dstFS.
func NewEngine(srcFS, dstFS filesystem.FileSystem) *Engine {
	return &Engine{
		ops:      fileops.NewDualFileOps(srcFS, dstFS),
		enricher: errors.NewEnricher(),
		Logger:   zap.NewNop(),
	}
}

// NewLocalEngine creates an engine working on the local filesystem.
func NewLocalEngine() *Engine {
	fs := filesystem.NewRealFileSystem()
	return NewEngine(fs, fs)
}

// Copy copies every target from srcDir to dstDir, overwriting files with the
// same relative path. Directories are copied recursively.
func (e *Engine) Copy(targets []Target, srcDir, dstDir string) (Result, error) {
	err := e.checkPair(srcDir, dstDir)
	if err != nil {
		return Result{}, err
	}

	return e.run(OpCopy, targets, func(target Target) (string, error) {
		src := e.ops.SourceFS.Join(srcDir, target.Name)
		dst := e.ops.DestFS.Join(dstDir, target.Name)

		return src, e.copyTarget(target, src, dst)
	}), nil
}

// Move moves every target from srcDir to dstDir. Files are renamed when both
// directories share a filesystem, falling back to copy-then-delete when the
// rename fails. Directories are always copied, then deleted.
func (e *Engine) Move(targets []Target, srcDir, dstDir string) (Result, error) {
	err := e.checkPair(srcDir, dstDir)
	if err != nil {
		return Result{}, err
	}

	return e.run(OpMove, targets, func(target Target) (string, error) {
		src := e.ops.SourceFS.Join(srcDir, target.Name)
		dst := e.ops.DestFS.Join(dstDir, target.Name)

		return src, e.moveTarget(target, src, dst)
	}), nil
}

// Delete removes every target from dir. Directories are removed with all
// their descendants, children first. A target that does not exist counts as
// deleted.
func (e *Engine) Delete(targets []Target, dir string) (Result, error) {
	err := e.checkDir("target", e.ops.SourceFS, dir)
	if err != nil {
		return Result{}, err
	}

	return e.run(OpDelete, targets, func(target Target) (string, error) {
		path := e.ops.SourceFS.Join(dir, target.Name)

		if target.IsDir {
			return path, e.ops.RemoveTree(path)
		}

		return path, e.ops.RemoveFile(path)
	}), nil
}

func (e *Engine) copyTarget(target Target, src, dst string) error {
	if target.IsDir {
		return e.ops.CopyTree(src, dst)
	}

	_, err := e.ops.CopyFile(src, dst, nil)

	return err
}

func (e *Engine) moveTarget(target Target, src, dst string) error {
	if e.ops.SameFileSystem() && e.ops.SourceFS.Join(src) == e.ops.DestFS.Join(dst) {
		return nil
	}

	if !target.IsDir && e.ops.SameFileSystem() {
		err := e.ops.Rename(src, dst)
		if err == nil {
			return nil
		}

		e.logger().Debug("rename failed, copying instead",
			zap.String("source", src), zap.String("destination", dst), zap.Error(err))
	}

	err := e.copyTarget(target, src, dst)
	if err != nil {
		return err
	}

	if target.IsDir {
		return e.ops.RemoveTree(src)
	}

	return e.ops.RemoveFile(src)
}

// run applies action to every target, isolating failures.
func (e *Engine) run(op Op, targets []Target, action func(Target) (string, error)) Result {
	logger := e.logger().With(zap.String("op", string(op)))
	result := Result{}

	e.emit(BatchStarted{Op: op, Total: len(targets)})
	logger.Info("batch started", zap.Int("targets", len(targets)))

	for i, target := range targets {
		e.emit(ItemStarted{Op: op, Name: target.Name, Index: i})

		path, err := action(target)
		if err != nil {
			enriched := e.enricher.Enrich(err, path)

			result.Failed++
			result.Failures = append(result.Failures, Failure{Name: target.Name, Err: enriched})

			logger.Warn("item failed",
				zap.String("name", target.Name),
				zap.Bool("dir", target.IsDir),
				zap.Error(err))
			e.emit(ItemFailed{Op: op, Name: target.Name, Err: enriched})

			continue
		}

		result.Succeeded++

		logger.Debug("item done", zap.String("name", target.Name), zap.Bool("dir", target.IsDir))
		e.emit(ItemComplete{Op: op, Name: target.Name})
	}

	logger.Info("batch complete",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	e.emit(BatchComplete{Op: op, Result: result})

	return result
}

func (e *Engine) checkPair(srcDir, dstDir string) error {
	err := e.checkDir("source", e.ops.SourceFS, srcDir)
	if err != nil {
		return err
	}

	return e.checkDir("destination", e.ops.DestFS, dstDir)
}

func (e *Engine) checkDir(role string, fs filesystem.FileSystem, dir string) error {
	info, err := fs.Stat(dir)
	if err != nil {
		e.logger().Warn("precondition failed", zap.String(role, dir), zap.Error(err))
		return &PreconditionError{Role: role, Path: dir, Err: err}
	}

	if !info.IsDir() {
		e.logger().Warn("precondition failed", zap.String(role, dir))
		return &PreconditionError{Role: role, Path: dir}
	}

	return nil
}

func (e *Engine) emit(event Event) {
	if e.Emitter != nil {
		e.Emitter.Emit(event)
	}
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}

	return e.Logger
}

// String describes a result as "N succeeded, M failed".
func (r Result) String() string {
	return fmt.Sprintf("%d succeeded, %d failed", r.Succeeded, r.Failed)
}
