package drawing

import (
	"fmt"
	"strings"
	"time"
)

// Tool discriminates the drawing tool variants.
type Tool int8

const (
	ToolTrendline Tool = iota
	ToolHorizontal
	ToolVertical
	ToolRectangle
	ToolCircle
	ToolArrow
	ToolText
	ToolFibonacci
	ToolPitchfork
)

// String returns the serialized tool name.
func (t Tool) String() string {
	switch t {
	case ToolTrendline:
		return "trendline"
	case ToolHorizontal:
		return "horizontal"
	case ToolVertical:
		return "vertical"
	case ToolRectangle:
		return "rectangle"
	case ToolCircle:
		return "circle"
	case ToolArrow:
		return "arrow"
	case ToolText:
		return "text"
	case ToolFibonacci:
		return "fibonacci"
	case ToolPitchfork:
		return "pitchfork"
	default:
		return "unknown"
	}
}

// ParseTool maps a serialized tool name back to its variant.
func ParseTool(s string) (Tool, bool) {
	for t := ToolTrendline; t <= ToolPitchfork; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// MarshalJSON serializes the tool as its name.
func (t Tool) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON parses a serialized tool name.
func (t *Tool) UnmarshalJSON(data []byte) error {
	name := strings.Trim(string(data), `"`)
	parsed, ok := ParseTool(name)
	if !ok {
		return fmt.Errorf("unknown drawing tool %q", name)
	}
	*t = parsed
	return nil
}

// PointBounds returns the valid point-count range for the tool.
func (t Tool) PointBounds() (minPoints, maxPoints int) {
	switch t {
	case ToolHorizontal, ToolVertical, ToolText:
		return 1, 1
	case ToolPitchfork:
		return 3, 3
	default:
		return 2, 2
	}
}

// Point is a chart coordinate: time on the x axis, price on the y axis.
type Point struct {
	Time  int64   `json:"time"`
	Price float64 `json:"price"`
}

// LineStyle is the stroke style of a drawn object.
type LineStyle string

const (
	StyleSolid  LineStyle = "solid"
	StyleDashed LineStyle = "dashed"
	StyleDotted LineStyle = "dotted"
)

// Object is one completed drawing annotation. Objects are exclusively
// owned by the engine's drawing list; mutations go through the engine.
type Object struct {
	ID        string    `json:"id"`
	Tool      Tool      `json:"type"`
	Points    []Point   `json:"points"`
	Color     string    `json:"color"`
	Width     float64   `json:"width"`
	Style     LineStyle `json:"style"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
