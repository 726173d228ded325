package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	errNotConfigured = errors.New("surface is not configured")
	errFrameOpen     = errors.New("previous frame has not been presented")
)

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured || b.device == nil {
		return errNotConfigured
	}
	if b.frame.surface != nil {
		return errFrameOpen
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	b.frame.surface = surfaceTexture

	if b.frame.view, err = surfaceTexture.CreateView(nil); err != nil {
		b.dropFrame()
		return fmt.Errorf("surface view: %w", err)
	}
	if b.frame.encoder, err = b.device.CreateCommandEncoder(nil); err != nil {
		b.dropFrame()
		return fmt.Errorf("command encoder: %w", err)
	}

	b.frame.pass = b.frame.encoder.BeginRenderPass(b.passDescriptor())
	return nil
}

// passDescriptor clears once per frame. With MSAA the pass draws into the multisampled
// target and resolves into the surface view.
func (b *wgpuRendererBackendImpl) passDescriptor() *wgpu.RenderPassDescriptor {
	color := wgpu.RenderPassColorAttachment{
		View:       b.frame.view,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: clearColor,
	}
	if b.msaa.view != nil {
		color.View = b.msaa.view
		color.ResolveTarget = b.frame.view
		color.StoreOp = wgpu.StoreOpDiscard
	}
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depth.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetViewport(x, y, width, height float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.pass == nil {
		return
	}
	b.frame.pass.SetViewport(x, y, width, height, 0, 1)
}

func (b *wgpuRendererBackendImpl) DrawIndexed(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pass := b.frame.pass
	if pass == nil {
		return
	}
	pass.SetPipeline(p.RenderPipeline())
	for group, provider := range bindGroups {
		if provider != nil {
			pass.SetBindGroup(uint32(group), provider.BindGroup(), nil)
		}
	}
	pass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(mesh.IndexBuffer(), mesh.IndexFormat(), 0, wgpu.WholeSize)
	pass.DrawIndexed(uint32(mesh.IndexCount()), 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.pass == nil {
		return
	}
	b.frame.pass.End()
	b.frame.pass.Release()
	b.frame.pass = nil

	commands, err := b.frame.encoder.Finish(nil)
	b.frame.encoder.Release()
	b.frame.encoder = nil
	if err != nil {
		// Nothing was submitted, so there is nothing to present.
		b.dropFrame()
		return
	}
	b.queue.Submit(commands)
	commands.Release()
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.surface == nil {
		return
	}
	b.surface.Present()
	b.dropFrame()
}

// dropFrame releases whatever part of the frame exists. Callers hold mu.
func (b *wgpuRendererBackendImpl) dropFrame() {
	f := &b.frame
	if f.pass != nil {
		f.pass.Release()
	}
	if f.encoder != nil {
		f.encoder.Release()
	}
	if f.view != nil {
		f.view.Release()
	}
	if f.surface != nil {
		f.surface.Release()
	}
	*f = frame{}
}
