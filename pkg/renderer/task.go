package renderer

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/df07/go-photon-renderer/pkg/core"
)

// Task is a rectangle of pixels rendered as one unit of work. Bounds.Min.Y
// and Bounds.Min.X are the first row and column; Max is exclusive.
type Task struct {
	Bounds image.Rectangle
}

// Area returns the number of pixels in the task
func (t Task) Area() int {
	return t.Bounds.Dx() * t.Bounds.Dy()
}

// TaskDivider hands out the regions of an image in row-major order. It is not
// safe for concurrent use; only the leader goroutine calls Next.
type TaskDivider struct {
	width, height             int
	regionWidth, regionHeight int
	row, col                  int
}

// NewTaskDivider splits a width×height image into regions of at most
// regionWidth×regionHeight pixels; regions on the right and bottom edges are
// clipped to the image.
func NewTaskDivider(width, height, regionWidth, regionHeight int) *TaskDivider {
	return &TaskDivider{
		width:        width,
		height:       height,
		regionWidth:  max(1, regionWidth),
		regionHeight: max(1, regionHeight),
	}
}

// Next returns the next region, or false once the image is exhausted
func (d *TaskDivider) Next() (Task, bool) {
	if d.row >= d.height || d.width <= 0 {
		return Task{}, false
	}

	endRow := min(d.row+d.regionHeight, d.height)
	endCol := min(d.col+d.regionWidth, d.width)
	task := Task{Bounds: image.Rect(d.col, d.row, endCol, endRow)}

	d.col = endCol
	if d.col == d.width {
		d.col = 0
		d.row = endRow
	}
	return task, true
}

// Count returns the total number of tasks the divider produces
func (d *TaskDivider) Count() int {
	if d.width <= 0 || d.height <= 0 {
		return 0
	}
	return ((d.width + d.regionWidth - 1) / d.regionWidth) * ((d.height + d.regionHeight - 1) / d.regionHeight)
}

// Reset rewinds the divider to the first region
func (d *TaskDivider) Reset() {
	d.row, d.col = 0, 0
}

// TaskDivision is a region-size policy. A zero dimension stands for the full
// image extent, so rows are {0, 1} and columns {1, 0}.
type TaskDivision struct {
	RegionWidth  int
	RegionHeight int
}

// Region resolves the policy for an image of the given size
func (td TaskDivision) Region(width, height int) (int, int) {
	w, h := td.RegionWidth, td.RegionHeight
	if w <= 0 {
		w = width
	}
	if h <= 0 {
		h = height
	}
	return w, h
}

func (td TaskDivision) String() string {
	switch {
	case td.RegionWidth == 1 && td.RegionHeight == 1:
		return "pixel"
	case td.RegionWidth == 0 && td.RegionHeight == 1:
		return "row"
	case td.RegionWidth == 1 && td.RegionHeight == 0:
		return "column"
	}
	return fmt.Sprintf("region:%d:%d", td.RegionWidth, td.RegionHeight)
}

// ParseTaskDivision accepts "pixel", "row", "column" or "region:W:H"
func ParseTaskDivision(s string) (TaskDivision, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), ":")
	switch parts[0] {
	case "pixel":
		return TaskDivision{1, 1}, nil
	case "row":
		return TaskDivision{0, 1}, nil
	case "column", "col":
		return TaskDivision{1, 0}, nil
	case "region":
		if len(parts) != 3 {
			return TaskDivision{}, fmt.Errorf("%w: region division needs region:W:H, got %q", core.ErrInvalidConfig, s)
		}
		w, errW := strconv.Atoi(parts[1])
		h, errH := strconv.Atoi(parts[2])
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			return TaskDivision{}, fmt.Errorf("%w: region size must be two positive integers, got %q", core.ErrInvalidConfig, s)
		}
		return TaskDivision{w, h}, nil
	}
	return TaskDivision{}, fmt.Errorf("%w: unknown task division %q (want pixel, row, column or region:W:H)", core.ErrInvalidConfig, s)
}
