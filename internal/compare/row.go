package compare

// Status is the classification of a Row.
type Status int

// Row statuses.
const (
	StatusSame Status = iota
	StatusDifferent
	StatusLeftOnly
	StatusRightOnly
)

// String returns a short human-readable status.
func (s Status) String() string {
	switch s {
	case StatusSame:
		return "same"
	case StatusDifferent:
		return "different"
	case StatusLeftOnly:
		return "left only"
	case StatusRightOnly:
		return "right only"
	default:
		return "unknown"
	}
}

// Row pairs the entries that share a case-insensitive name. At least one
// side is present.
type Row struct {
	Left  *Entry
	Right *Entry
}

// Key returns the case-folded name identifying the row.
func (r Row) Key() string {
	return foldKey(r.Name())
}

// Name returns the left name when present, otherwise the right one.
func (r Row) Name() string {
	if r.Left != nil {
		return r.Left.Name
	}

	if r.Right != nil {
		return r.Right.Name
	}

	return ""
}

// OrphanLeft reports whether only the left side is present.
func (r Row) OrphanLeft() bool {
	return r.Left != nil && r.Right == nil
}

// OrphanRight reports whether only the right side is present.
func (r Row) OrphanRight() bool {
	return r.Left == nil && r.Right != nil
}

// Different reports whether both sides are present and their metadata
// differs: kind, size (files only), or modification time. A timestamp known
// on one side only counts as a difference.
func (r Row) Different() bool {
	if r.Left == nil || r.Right == nil {
		return false
	}

	left, right := r.Left, r.Right

	if left.IsDir != right.IsDir {
		return true
	}

	if !left.IsDir && !right.IsDir && left.Size != right.Size {
		return true
	}

	return !sameModTime(left, right)
}

// Status classifies the row.
func (r Row) Status() Status {
	switch {
	case r.OrphanLeft():
		return StatusLeftOnly
	case r.OrphanRight():
		return StatusRightOnly
	case r.Different():
		return StatusDifferent
	default:
		return StatusSame
	}
}

// IsDir reports whether the present side (left first) is a directory.
func (r Row) IsDir() bool {
	if r.Left != nil {
		return r.Left.IsDir
	}

	return r.Right != nil && r.Right.IsDir
}

func sameModTime(left, right *Entry) bool {
	if left.ModTime.IsZero() || right.ModTime.IsZero() {
		return left.ModTime.IsZero() && right.ModTime.IsZero()
	}

	return left.ModTime.Equal(right.ModTime)
}

// Align pairs two listings by case-insensitive name. Every key appears in
// exactly one row, in ascending case-insensitive order.
func Align(left, right *Listing) []Row {
	leftEntries := left.Entries()
	rightEntries := right.Entries()

	rows := make([]Row, 0, len(leftEntries)+len(rightEntries))

	i, j := 0, 0
	for i < len(leftEntries) || j < len(rightEntries) {
		switch {
		case j >= len(rightEntries):
			rows = append(rows, Row{Left: &leftEntries[i]})
			i++
		case i >= len(leftEntries):
			rows = append(rows, Row{Right: &rightEntries[j]})
			j++
		default:
			lk, rk := leftEntries[i].Key(), rightEntries[j].Key()

			switch {
			case lk == rk:
				rows = append(rows, Row{Left: &leftEntries[i], Right: &rightEntries[j]})
				i++
				j++
			case lk < rk:
				rows = append(rows, Row{Left: &leftEntries[i]})
				i++
			default:
				rows = append(rows, Row{Right: &rightEntries[j]})
				j++
			}
		}
	}

	return rows
}

// Compare scans both directories and aligns the results. Every call is a
// full recomputation.
func Compare(scanner *Scanner, leftPath, rightPath string) []Row {
	return Align(scanner.Scan(leftPath), scanner.Scan(rightPath))
}

// Summary counts rows per status.
type Summary struct {
	Same      int
	Different int
	LeftOnly  int
	RightOnly int
}

// Total returns the number of rows counted.
func (s Summary) Total() int {
	return s.Same + s.Different + s.LeftOnly + s.RightOnly
}

// Summarize counts rows per status.
func Summarize(rows []Row) Summary {
	var summary Summary

	for _, row := range rows {
		switch row.Status() {
		case StatusSame:
			summary.Same++
		case StatusDifferent:
			summary.Different++
		case StatusLeftOnly:
			summary.LeftOnly++
		case StatusRightOnly:
			summary.RightOnly++
		}
	}

	return summary
}
