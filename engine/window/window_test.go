package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

// fakePlatform closes after a fixed number of event waits.
type fakePlatform struct {
	waits, closeAfter int
	closing           bool
	destroyed         int
	title             string
	onWait            func()
}

func (f *fakePlatform) surfaceDescriptor() *wgpu.SurfaceDescriptor { return &wgpu.SurfaceDescriptor{} }
func (f *fakePlatform) shouldClose() bool                          { return f.closing }
func (f *fakePlatform) requestClose()                              { f.closing = true }
func (f *fakePlatform) setTitle(title string)                      { f.title = title }
func (f *fakePlatform) destroy()                                   { f.destroyed++ }

func (f *fakePlatform) waitEvents() {
	f.waits++
	if f.onWait != nil {
		f.onWait()
	}
	if f.waits >= f.closeAfter {
		f.closing = true
	}
}

func TestNewEngineWindowClampsSize(t *testing.T) {
	w := newEngineWindow(WithSize(100, 5000), WithTitle("globe"))
	assert.Equal(t, 320, w.Width())
	assert.Equal(t, 2160, w.Height())
	assert.Equal(t, "globe", w.Title())

	w = newEngineWindow(WithMinSize(10, 10), WithMaxSize(800, 600), WithSize(1280, 720))
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
}

func TestProcessMessagesDispatchesUntilClosed(t *testing.T) {
	p := &fakePlatform{closeAfter: 3}
	w := newEngineWindow()
	w.platform = p

	var keys []int
	w.SetKeyDownCallback(func(k int) { keys = append(keys, k) })
	p.onWait = func() { w.keyDown(common.KeyRight) }

	w.ProcessMessages()
	assert.Equal(t, 3, p.waits)
	assert.Equal(t, []int{common.KeyRight, common.KeyRight, common.KeyRight}, keys)
	assert.False(t, w.IsRunning())
}

func TestEscapeRequestsClose(t *testing.T) {
	p := &fakePlatform{closeAfter: 100}
	w := newEngineWindow()
	w.platform = p

	called := false
	w.SetKeyDownCallback(func(int) { called = true })
	p.onWait = func() { w.keyDown(common.KeyEsc) }

	w.ProcessMessages()
	assert.Equal(t, 1, p.waits)
	assert.False(t, called, "escape is not forwarded")
	assert.Equal(t, 0, p.destroyed, "the loop only requests a close")

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.Equal(t, 1, p.destroyed)
	assert.Nil(t, w.SurfaceDescriptor())
}

func TestCallbacksAndTitle(t *testing.T) {
	p := &fakePlatform{}
	w := newEngineWindow()
	w.platform = p

	var size [2]int
	refreshed := 0
	w.SetResizeCallback(func(width, height int) { size = [2]int{width, height} })
	w.SetRefreshCallback(func() { refreshed++ })

	w.framebufferResized(1600, 900)
	w.refresh()
	assert.Equal(t, [2]int{1600, 900}, size)
	assert.Equal(t, 1600, w.Width())
	assert.Equal(t, 1, refreshed)

	w.SetTitle("Earth and Satellite | longitude 10")
	assert.Equal(t, "Earth and Satellite | longitude 10", p.title)
	assert.NotNil(t, w.SurfaceDescriptor())
}

func TestCloseUninitialized(t *testing.T) {
	w := newEngineWindow()
	assert.Error(t, w.Close())
	assert.False(t, w.IsRunning())
	w.RequestClose()
}
