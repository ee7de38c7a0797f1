package compare

import "github.com/joe/folder-compare/pkg/fileops"

// Verify compares the content of a row's two sides: files byte for byte,
// directories by their direct regular files. ops reads the left side from its
// SourceFS and the right side from its DestFS. Orphan rows and rows pairing a
// file with a directory are never equal.
func Verify(ops *fileops.FileOps, leftDir, rightDir string, row Row) bool {
	if row.Left == nil || row.Right == nil || row.Left.IsDir != row.Right.IsDir {
		return false
	}

	leftPath := ops.SourceFS.Join(leftDir, row.Left.Name)
	rightPath := ops.DestFS.Join(rightDir, row.Right.Name)

	if row.Left.IsDir {
		return ops.DirectoriesEqual(leftPath, rightPath)
	}

	return ops.FilesEqual(leftPath, rightPath)
}
