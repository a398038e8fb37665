// Package hidden tracks hidden alignment columns.
//
// Columns are addressed in two coordinate spaces: absolute columns count
// every column of the alignment, visible columns skip the hidden ones.
// Hidden regions are kept as sorted, disjoint, inclusive intervals.
package hidden

import "sort"

// Region is an inclusive range of hidden absolute columns.
type Region struct {
	Start int
	End   int
}

// Width returns the number of columns in the region.
func (r Region) Width() int {
	return r.End - r.Start + 1
}

// Contains reports whether col lies inside the region.
func (r Region) Contains(col int) bool {
	return col >= r.Start && col <= r.End
}

// Columns is the set of hidden column regions of one alignment.
// The zero value has no hidden columns and is ready to use.
type Columns struct {
	regions []Region
}

// New creates an empty hidden column set.
func New() *Columns {
	return &Columns{}
}

// Hide hides the absolute columns start..end inclusive.
// Overlapping and adjacent regions are merged.
func (c *Columns) Hide(start, end int) {
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		return
	}

	merged := make([]Region, 0, len(c.regions)+1)
	nr := Region{Start: start, End: end}
	inserted := false
	for _, r := range c.regions {
		switch {
		case r.End+1 < nr.Start:
			merged = append(merged, r)
		case nr.End+1 < r.Start:
			if !inserted {
				merged = append(merged, nr)
				inserted = true
			}
			merged = append(merged, r)
		default:
			nr.Start = min(nr.Start, r.Start)
			nr.End = max(nr.End, r.End)
		}
	}
	if !inserted {
		merged = append(merged, nr)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })
	c.regions = merged
}

// Reveal shows the hidden region containing col.
// Returns false if col is not hidden.
func (c *Columns) Reveal(col int) bool {
	for i, r := range c.regions {
		if r.Contains(col) {
			c.regions = append(c.regions[:i], c.regions[i+1:]...)
			return true
		}
	}
	return false
}

// RevealAll shows every hidden column.
func (c *Columns) RevealAll() {
	c.regions = nil
}

// Regions returns a copy of the hidden regions in ascending order.
func (c *Columns) Regions() []Region {
	out := make([]Region, len(c.regions))
	copy(out, c.regions)
	return out
}

// HasHidden reports whether any column is hidden.
func (c *Columns) HasHidden() bool {
	return c != nil && len(c.regions) > 0
}

// Count returns the total number of hidden columns.
func (c *Columns) Count() int {
	n := 0
	for _, r := range c.regions {
		n += r.Width()
	}
	return n
}

// RegionAt returns the hidden region containing col, if any.
func (c *Columns) RegionAt(col int) (Region, bool) {
	if c == nil {
		return Region{}, false
	}
	for _, r := range c.regions {
		if r.Contains(col) {
			return r, true
		}
		if r.Start > col {
			break
		}
	}
	return Region{}, false
}

// IsVisible reports whether the absolute column col is shown.
func (c *Columns) IsVisible(col int) bool {
	_, hiddenCol := c.RegionAt(col)
	return !hiddenCol
}

// AbsoluteToVisible converts an absolute column to a visible column.
// A hidden column maps to the visible position where its region is folded.
func (c *Columns) AbsoluteToVisible(col int) int {
	if c == nil {
		return col
	}
	vis := col
	for _, r := range c.regions {
		if r.Start > col {
			break
		}
		if r.Contains(col) {
			vis -= col - r.Start
			break
		}
		vis -= r.Width()
	}
	return vis
}

// VisibleToAbsolute converts a visible column to an absolute column.
func (c *Columns) VisibleToAbsolute(vis int) int {
	if c == nil {
		return vis
	}
	abs := vis
	for _, r := range c.regions {
		if r.Start > abs {
			break
		}
		abs += r.Width()
	}
	return abs
}

// BoundaryBefore returns the last column of the nearest hidden region that
// ends before col, or -1 if there is none.
func (c *Columns) BoundaryBefore(col int) int {
	if c == nil {
		return -1
	}
	boundary := -1
	for _, r := range c.regions {
		if r.End >= col {
			break
		}
		boundary = r.End
	}
	return boundary
}

// BoundaryAfter returns the first column of the nearest hidden region that
// starts after col, or -1 if there is none.
func (c *Columns) BoundaryAfter(col int) int {
	if c == nil {
		return -1
	}
	for _, r := range c.regions {
		if r.Start > col {
			return r.Start
		}
	}
	return -1
}

// VisibleWidth returns how many of the first width columns are visible.
func (c *Columns) VisibleWidth(width int) int {
	if c == nil {
		return width
	}
	n := width
	for _, r := range c.regions {
		if r.Start >= width {
			break
		}
		n -= min(r.End, width-1) - r.Start + 1
	}
	return n
}

// Clone returns an independent copy.
func (c *Columns) Clone() *Columns {
	if c == nil {
		return New()
	}
	return &Columns{regions: c.Regions()}
}
