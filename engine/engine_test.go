package engine

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/engine/controls"
	"github.com/Carmen-Shannon/oxy-earth/engine/scene"
	"github.com/Carmen-Shannon/oxy-earth/engine/shading"
	"github.com/Carmen-Shannon/oxy-earth/engine/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingScene counts the calls the engine makes. Methods the engine never calls are left to the
// embedded nil interface.
type recordingScene struct {
	scene.Scene

	applied   []transform.State
	toggles   []shading.Toggles
	renders   int
	resizes   [][2]int
	renderErr error
}

func (s *recordingScene) Apply(state transform.State, toggles shading.Toggles) {
	s.applied = append(s.applied, state)
	s.toggles = append(s.toggles, toggles)
}

func (s *recordingScene) Render() error {
	if s.renderErr != nil {
		return s.renderErr
	}
	s.renders++
	return nil
}

func (s *recordingScene) Resize(width, height int) {
	s.resizes = append(s.resizes, [2]int{width, height})
}

func (s *recordingScene) Stats() scene.RenderStats {
	return scene.RenderStats{DrawCalls: 8, Uploads: 2, UploadBytes: 208, Elapsed: time.Millisecond}
}

func TestRunRendersInitialState(t *testing.T) {
	s := &recordingScene{}
	e := NewEngine(WithScene(s))

	e.Run()
	require.Len(t, s.applied, 1)
	assert.Equal(t, float32(0.5), s.applied[0].HeightScale)
	assert.Equal(t, float32(20), s.applied[0].SpotCutoff)
	assert.Equal(t, 1, s.renders)
	assert.Equal(t, uint64(1), e.Renders())
}

func TestHandleKeyRendersOncePerChange(t *testing.T) {
	s := &recordingScene{}
	var seen []string
	e := NewEngine(WithScene(s), WithStateCallback(func(c controls.Controls) {
		seen = append(seen, c.String())
	}))

	assert.True(t, e.HandleKey(common.KeyRight))
	assert.Equal(t, 1, s.renders)
	assert.Equal(t, float32(1), s.applied[0].Longitude)
	assert.Len(t, seen, 1)

	assert.False(t, e.HandleKey(common.KeyR), "unbound keys do not render")
	assert.Equal(t, 1, s.renders)

	c := controls.NewControls(controls.WithSlider(controls.Slider{Name: controls.SliderLatitude, Min: -90, Max: 90, Step: 1, Value: 90}))
	e = NewEngine(WithScene(s), WithControls(c))
	assert.False(t, e.HandleKey(common.KeyUp), "a slider at its bound does not change")
	assert.Equal(t, 1, s.renders)

	assert.True(t, e.HandleKey(common.KeyT))
	assert.False(t, s.toggles[len(s.toggles)-1].Spotlight)
}

func TestResizeAndRefresh(t *testing.T) {
	s := &recordingScene{}
	e := NewEngine(WithScene(s))

	e.Resize(800, 600)
	e.Resize(800, 0)
	assert.Equal(t, [][2]int{{800, 600}}, s.resizes)
	assert.Equal(t, 1, s.renders)

	e.Refresh()
	assert.Equal(t, 2, s.renders)
	assert.Empty(t, s.applied, "expose events redraw without touching state")
}

func TestRenderErrorIsNotCounted(t *testing.T) {
	s := &recordingScene{renderErr: errors.New("surface lost")}
	e := NewEngine(WithScene(s))
	e.Refresh()
	assert.Equal(t, uint64(0), e.Renders())
}

func TestProfilerLogsEachRender(t *testing.T) {
	var out bytes.Buffer
	s := &recordingScene{}
	e := NewEngine(WithScene(s), WithProfiling(true), WithProfilerOutput(&out))

	e.Refresh()
	e.Refresh()
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("profiler: render ")))
	assert.Contains(t, out.String(), "Draws: 8")

	e.DisableProfiler()
	e.Refresh()
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("profiler: ")))
}

func TestEngineWithoutSceneIsInert(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.HandleKey(common.KeyRight))
	e.Refresh()
	e.Run()
	e.Quit()
	assert.Equal(t, uint64(0), e.Renders())
	assert.Nil(t, e.Scene())
	assert.Nil(t, e.Window())
}
