package drawing

import (
	"testing"

	"github.com/raykavin/chartview/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	log, err := zerolog.New("error", "", false, false)
	require.NoError(t, err)
	return NewEngine(log)
}

func TestEngine_FinishWithoutMoveDropsTrendline(t *testing.T) {
	engine := newTestEngine(t)

	engine.StartDrawing(ToolTrendline, Point{Time: 100, Price: 10})
	obj := engine.FinishDrawing()

	// A trendline needs two points; the single press point is invalid
	// and the attempt is dropped without touching the object list.
	assert.Nil(t, obj)
	assert.Empty(t, engine.Objects())
	assert.Equal(t, StateIdle, engine.Snapshot().State)
}

func TestEngine_DrawTrendline(t *testing.T) {
	engine := newTestEngine(t)

	engine.StartDrawing(ToolTrendline, Point{Time: 100, Price: 10})
	assert.Equal(t, StateDrawing, engine.Snapshot().State)

	engine.UpdateDrawing(Point{Time: 200, Price: 20})
	obj := engine.FinishDrawing()

	require.NotNil(t, obj)
	assert.Equal(t, ToolTrendline, obj.Tool)
	require.Len(t, obj.Points, 2)
	assert.Equal(t, Point{Time: 100, Price: 10}, obj.Points[0])
	assert.Equal(t, Point{Time: 200, Price: 20}, obj.Points[1])
	assert.True(t, obj.Visible)
	assert.NotEmpty(t, obj.ID)

	// The new object is selected and the engine idle again.
	snap := engine.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, obj.ID, snap.SelectedID)
	assert.Len(t, snap.Objects, 1)
}

func TestEngine_HorizontalNeedsOnePoint(t *testing.T) {
	engine := newTestEngine(t)

	engine.StartDrawing(ToolHorizontal, Point{Time: 100, Price: 10})
	obj := engine.FinishDrawing()

	require.NotNil(t, obj)
	require.Len(t, obj.Points, 1)
}

func TestEngine_ExtraPointsTruncated(t *testing.T) {
	engine := newTestEngine(t)

	// A vertical line takes exactly one point; the drag end is dropped.
	engine.StartDrawing(ToolVertical, Point{Time: 100, Price: 10})
	engine.UpdateDrawing(Point{Time: 300, Price: 30})
	obj := engine.FinishDrawing()

	require.NotNil(t, obj)
	require.Len(t, obj.Points, 1)
	assert.Equal(t, Point{Time: 100, Price: 10}, obj.Points[0])
}

func TestEngine_CancelDiscardsProgress(t *testing.T) {
	engine := newTestEngine(t)

	engine.StartDrawing(ToolRectangle, Point{Time: 100, Price: 10})
	engine.UpdateDrawing(Point{Time: 200, Price: 20})
	engine.CancelDrawing()

	assert.Equal(t, StateIdle, engine.Snapshot().State)
	assert.Empty(t, engine.Objects())
	assert.Nil(t, engine.FinishDrawing())
}

func TestEngine_DeleteAndSelect(t *testing.T) {
	engine := newTestEngine(t)

	engine.StartDrawing(ToolHorizontal, Point{Time: 100, Price: 10})
	first := engine.FinishDrawing()
	engine.StartDrawing(ToolHorizontal, Point{Time: 200, Price: 20})
	second := engine.FinishDrawing()
	require.NotNil(t, first)
	require.NotNil(t, second)

	engine.Select(first.ID)
	assert.Equal(t, first.ID, engine.Snapshot().SelectedID)

	engine.Delete(first.ID)
	snap := engine.Snapshot()
	assert.Len(t, snap.Objects, 1)
	assert.Empty(t, snap.SelectedID)

	// Selecting an unknown id clears selection.
	engine.Select("nope")
	assert.Empty(t, engine.Snapshot().SelectedID)
}

func TestEngine_UpdatePoints(t *testing.T) {
	engine := newTestEngine(t)

	engine.StartDrawing(ToolTrendline, Point{Time: 100, Price: 10})
	engine.UpdateDrawing(Point{Time: 200, Price: 20})
	obj := engine.FinishDrawing()
	require.NotNil(t, obj)

	moved := []Point{{Time: 150, Price: 15}, {Time: 250, Price: 25}}
	assert.True(t, engine.UpdatePoints(obj.ID, moved))

	got := engine.Objects()[0]
	assert.Equal(t, moved, got.Points)
	assert.False(t, got.UpdatedAt.Before(obj.UpdatedAt))

	// Wrong cardinality is rejected.
	assert.False(t, engine.UpdatePoints(obj.ID, moved[:1]))
	assert.False(t, engine.UpdatePoints("nope", moved))
}

func TestEngine_ZOrderIsInsertionOrder(t *testing.T) {
	engine := newTestEngine(t)

	var ids []string
	for i := 0; i < 3; i++ {
		engine.StartDrawing(ToolHorizontal, Point{Time: int64(i) * 100, Price: float64(i)})
		obj := engine.FinishDrawing()
		require.NotNil(t, obj)
		ids = append(ids, obj.ID)
	}

	objects := engine.Objects()
	require.Len(t, objects, 3)
	for i, obj := range objects {
		assert.Equal(t, ids[i], obj.ID)
	}
}

func TestEngine_NotifiesListeners(t *testing.T) {
	engine := newTestEngine(t)

	var snapshots []Snapshot
	unsubscribe := engine.Subscribe(func(s Snapshot) {
		snapshots = append(snapshots, s)
	})

	engine.StartDrawing(ToolTrendline, Point{Time: 100, Price: 10})
	engine.UpdateDrawing(Point{Time: 200, Price: 20})
	engine.FinishDrawing()

	require.Len(t, snapshots, 3)
	assert.Equal(t, StateDrawing, snapshots[0].State)
	assert.Equal(t, StateIdle, snapshots[2].State)
	assert.Len(t, snapshots[2].Objects, 1)

	unsubscribe()
	engine.ClearAll()
	assert.Len(t, snapshots, 3)
}

func TestEngine_ExportImportRoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	engine.StartDrawing(ToolTrendline, Point{Time: 100, Price: 10})
	engine.UpdateDrawing(Point{Time: 200, Price: 20})
	require.NotNil(t, engine.FinishDrawing())
	engine.StartDrawing(ToolFibonacci, Point{Time: 300, Price: 30})
	engine.UpdateDrawing(Point{Time: 400, Price: 40})
	require.NotNil(t, engine.FinishDrawing())

	content, err := engine.Export()
	require.NoError(t, err)

	other := newTestEngine(t)
	require.NoError(t, other.Import(content))

	want := engine.Objects()
	got := other.Objects()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Tool, got[i].Tool)
		assert.Equal(t, want[i].Points, got[i].Points)
	}

	// Import replaces wholesale and clears selection.
	assert.Empty(t, other.Snapshot().SelectedID)
}

func TestEngine_ImportRejectsMalformedPayload(t *testing.T) {
	engine := newTestEngine(t)

	engine.StartDrawing(ToolHorizontal, Point{Time: 100, Price: 10})
	require.NotNil(t, engine.FinishDrawing())

	require.Error(t, engine.Import([]byte("{not json")))
	assert.Len(t, engine.Objects(), 1)
}

func TestTool_JSONRoundTrip(t *testing.T) {
	for tool := ToolTrendline; tool <= ToolPitchfork; tool++ {
		data, err := tool.MarshalJSON()
		require.NoError(t, err)

		var parsed Tool
		require.NoError(t, parsed.UnmarshalJSON(data))
		assert.Equal(t, tool, parsed)
	}

	var bad Tool
	assert.Error(t, bad.UnmarshalJSON([]byte(`"squiggle"`)))
}
