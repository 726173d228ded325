package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/config"
	"github.com/Carmen-Shannon/oxy-earth/engine/mesh"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-earth/engine/shading"
	"github.com/Carmen-Shannon/oxy-earth/engine/texture"
	"github.com/Carmen-Shannon/oxy-earth/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrTopology is returned when a mesh's primitive topology differs from its program's.
	ErrTopology = errors.New("scene: mesh topology does not match program")
	// ErrDuplicateHandle is returned when two objects of one generator share a program.
	ErrDuplicateHandle = errors.New("scene: generator already bound in program")
	// ErrMissingDeclaration is returned when a program lacks a binding the scene writes.
	ErrMissingDeclaration = errors.New("scene: program is missing a declaration")
)

// Item is one mesh of a Context with its model uniform block.
type Item struct {
	Mesh mesh.Mesh

	block  uniform.Block
	model  uniform.Mat4
	normal uniform.Mat4
}

// SetModel places the mesh and writes the model and normal matrices.
//
// Parameters:
//   - m: the column-major model matrix
func (i *Item) SetModel(m [16]float32) {
	i.Mesh.SetModelMatrix(m)
	i.model.Set(m)
	i.normal.Set(transform.NormalMatrix(m))
}

// Block returns the item's model uniform block.
func (i *Item) Block() uniform.Block {
	return i.block
}

// earthParams are the resolved members of the EarthParams block.
type earthParams struct {
	block        uniform.Block
	provider     bind_group_provider.BindGroupProvider
	binding      int
	lightPos     uniform.Vec3
	scale        uniform.Float
	spotPos      uniform.Vec3
	outerAngle   uniform.Float
	viewPos      uniform.Vec3
	turnLight    uniform.Int
	turnSpot     uniform.Int
	bumpNormals  uniform.Int
	gateSpecular uniform.Int
}

// Context groups one program with the meshes it draws. Typed handles are nil when the configuration
// did not bind that generator to this program.
type Context struct {
	Pipeline pipeline.Pipeline

	Earth     *Item
	Axis      *Item
	Latitude  *Item
	Satellite *Item

	items []*Item

	cameraGroup   int
	cameraLayout  shader.UniformLayout
	modelGroup    int
	modelBinding  int
	modelLayout   shader.UniformLayout
	params        *earthParams
	paramsGroup   int
	textures      bind_group_provider.BindGroupProvider
	texturesGroup int
}

// declaration finds the uniform declaration whose struct type is identity.
func declaration(p pipeline.Pipeline, identity shader.AnnotationArg) (shader.UniformLayout, bool) {
	for _, d := range p.Declarations() {
		if d.Type != shader.AnnotationTypeBindingGroup || d.Group == nil || d.Binding == nil {
			continue
		}
		if d.Identity() == identity {
			return p.UniformLayout(*d.Group, *d.Binding)
		}
	}
	return shader.UniformLayout{}, false
}

// newContext resolves the camera, model and optional earth bindings of p.
//
// Parameters:
//   - p: the linked program
//
// Returns:
//   - *Context: the empty context
//   - error: a missing camera or model declaration, or an unresolved uniform member
func newContext(p pipeline.Pipeline) (*Context, error) {
	c := &Context{Pipeline: p, paramsGroup: -1, texturesGroup: -1}

	cam, ok := declaration(p, shader.AnnotationArgCamera)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s uniform", ErrMissingDeclaration, p.PipelineKey(), shader.AnnotationArgCamera)
	}
	c.cameraGroup, c.cameraLayout = cam.Group, cam

	model, ok := declaration(p, shader.AnnotationArgModel)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s uniform", ErrMissingDeclaration, p.PipelineKey(), shader.AnnotationArgModel)
	}
	c.modelGroup, c.modelBinding, c.modelLayout = model.Group, model.Binding, model

	if layout, ok := declaration(p, shader.AnnotationArgEarthParams); ok {
		params, err := resolveEarthParams(p.PipelineKey(), layout)
		if err != nil {
			return nil, err
		}
		c.params, c.paramsGroup = params, layout.Group
	}
	if g, ok := p.GroupFor(shader.AnnotationArgEarthTextures); ok {
		c.texturesGroup = g
		c.textures = bind_group_provider.NewBindGroupProvider(p.PipelineKey() + "_textures")
	}
	return c, nil
}

func resolveEarthParams(key string, layout shader.UniformLayout) (*earthParams, error) {
	b := uniform.NewBlock(layout)
	ep := &earthParams{
		block:    b,
		binding:  layout.Binding,
		provider: bind_group_provider.NewBindGroupProvider(key + "_params"),
	}
	var e [9]error
	ep.lightPos, e[0] = b.Vec3(shading.ParamLightPosition)
	ep.scale, e[1] = b.Float(shading.ParamScale)
	ep.spotPos, e[2] = b.Vec3(shading.ParamSpotPosition)
	ep.outerAngle, e[3] = b.Float(shading.ParamOuterAngle)
	ep.turnLight, e[4] = b.Int(shading.ParamTurnLight)
	ep.turnSpot, e[5] = b.Int(shading.ParamTurnSpot)
	ep.bumpNormals, e[6] = b.Int(shading.ParamBumpNormals)
	ep.gateSpecular, e[7] = b.Int(shading.ParamGateSpecular)
	ep.viewPos, e[8] = b.Vec3(shading.ParamViewPosition)
	if err := errors.Join(e[:]...); err != nil {
		return nil, fmt.Errorf("%s params: %w", key, err)
	}
	return ep, nil
}

// Items returns the meshes in the order they are drawn.
func (c *Context) Items() []*Item {
	return c.items
}

// Params returns the EarthParams block, or nil for programs without one.
func (c *Context) Params() uniform.Block {
	if c.params == nil {
		return nil
	}
	return c.params.block
}

// add validates m against the program and binds it to the handle of generator.
//
// Parameters:
//   - generator: the generator that produced m, selecting the typed handle
//   - m: the mesh
//
// Returns:
//   - *Item: the new item
//   - error: a vertex layout, topology or duplicate handle error
func (c *Context) add(generator config.Generator, m mesh.Mesh) (*Item, error) {
	if err := c.Pipeline.CheckVertexStride(m.VertexStride()); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name(), err)
	}
	if m.Topology() != c.Pipeline.State().Topology {
		return nil, fmt.Errorf("%w: mesh %q in %s", ErrTopology, m.Name(), c.Pipeline.PipelineKey())
	}

	var slot **Item
	switch generator {
	case config.GeneratorEarth:
		slot = &c.Earth
	case config.GeneratorAxisLongitude:
		slot = &c.Axis
	case config.GeneratorLatitude:
		slot = &c.Latitude
	case config.GeneratorSatellite:
		slot = &c.Satellite
	default:
		return nil, fmt.Errorf("mesh %q: unknown generator %q", m.Name(), generator)
	}
	if *slot != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrDuplicateHandle, generator, m.Name())
	}

	item := &Item{Mesh: m, block: uniform.NewBlock(c.modelLayout)}
	var err error
	if item.model, err = item.block.Mat4(mesh.UniformModel); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name(), err)
	}
	if item.normal, err = item.block.Mat4(mesh.UniformNormalMatrix); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name(), err)
	}
	item.SetModel(m.ModelMatrix())

	*slot = item
	c.items = append(c.items, item)
	return item, nil
}

// setModels writes the transforms onto the bound handles.
func (c *Context) setModels(t transform.Transforms) {
	if c.Earth != nil {
		c.Earth.SetModel(t.Earth)
	}
	if c.Axis != nil {
		c.Axis.SetModel(t.Axis)
	}
	if c.Latitude != nil {
		c.Latitude.SetModel(t.Latitude)
	}
	if c.Satellite != nil {
		c.Satellite.SetModel(t.Satellite)
	}
}

// init uploads the mesh buffers and creates every bind group the context owns.
// The textures group is only created when the program declares one.
//
// Parameters:
//   - r: the renderer the program was registered with
//   - textures: the decoded earth images
//   - sampler: the earth sampler settings
//
// Returns:
//   - error: the first wrapped resource creation error
func (c *Context) init(r renderer.Renderer, textures texture.Set, sampler common.SamplerStagingData) error {
	layouts := c.Pipeline.BindGroupLayoutDescriptors()
	key := c.Pipeline.PipelineKey()

	for _, item := range c.items {
		m := item.Mesh
		if err := r.InitMesh(m.MeshProvider(), m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
			return fmt.Errorf("%s mesh %q buffers: %w", key, m.Name(), err)
		}
		if err := r.InitBindGroup(m.ModelProvider(), layouts[c.modelGroup]); err != nil {
			return fmt.Errorf("%s mesh %q model: %w", key, m.Name(), err)
		}
	}

	if c.params != nil {
		if err := r.InitBindGroup(c.params.provider, layouts[c.paramsGroup]); err != nil {
			return fmt.Errorf("%s params: %w", key, err)
		}
	}

	if c.textures == nil {
		return nil
	}
	for _, role := range texture.Roles {
		_, binding, ok := c.Pipeline.BindingFor(textureRole(role))
		if !ok {
			return fmt.Errorf("%w: %s has no %s binding", ErrMissingDeclaration, key, role)
		}
		data, _ := textures.Get(role)
		if err := r.InitTexture(c.textures, binding, data); err != nil {
			return fmt.Errorf("%s %s texture: %w", key, role, err)
		}
	}
	_, binding, ok := c.Pipeline.BindingFor(shader.AnnotationArgEarthSampler)
	if !ok {
		return fmt.Errorf("%w: %s has no sampler binding", ErrMissingDeclaration, key)
	}
	if err := r.InitSampler(c.textures, binding, sampler); err != nil {
		return fmt.Errorf("%s sampler: %w", key, err)
	}
	if err := r.InitBindGroup(c.textures, layouts[c.texturesGroup]); err != nil {
		return fmt.Errorf("%s textures: %w", key, err)
	}
	return nil
}

// textureRole maps an image role to the provider role of its binding.
func textureRole(role texture.Role) shader.AnnotationArg {
	switch role {
	case texture.RoleBump:
		return shader.AnnotationArgBumpTexture
	case texture.RoleMap:
		return shader.AnnotationArgMapTexture
	default:
		return shader.AnnotationArgSpecTexture
	}
}

// writes appends the uploads of every dirty block and clears their dirty flags.
func (c *Context) writes(out bind_group_provider.Uploads) bind_group_provider.Uploads {
	for _, item := range c.items {
		out = out.AddDirty(item.Mesh.ModelProvider(), c.modelBinding, item.block)
	}
	if c.params != nil {
		out = out.AddDirty(c.params.provider, c.params.binding, c.params.block)
	}
	return out
}

// draw issues one draw call per item whose bounding sphere intersects frustum.
//
// Parameters:
//   - r: the renderer inside an open frame
//   - cameraGroup: the bind group of the viewport's camera
//   - frustum: the viewport camera's clip planes
//
// Returns:
//   - int: the number of draw calls issued
//   - error: a missing pipeline error from the renderer
func (c *Context) draw(r renderer.Renderer, cameraGroup bind_group_provider.BindGroupProvider, frustum common.Frustum) (int, error) {
	groups := c.Pipeline.Groups()
	if len(groups) == 0 {
		return 0, nil
	}
	bindGroups := make([]bind_group_provider.BindGroupProvider, slices.Max(groups)+1)
	bindGroups[c.cameraGroup] = cameraGroup
	if c.params != nil {
		bindGroups[c.paramsGroup] = c.params.provider
	}
	if c.textures != nil {
		bindGroups[c.texturesGroup] = c.textures
	}

	drawn := 0
	for _, item := range c.items {
		if !frustum.SphereVisible([3]float32{}, item.Mesh.BoundingRadius()) {
			continue
		}
		bindGroups[c.modelGroup] = item.Mesh.ModelProvider()
		if err := r.Draw(c.Pipeline.PipelineKey(), item.Mesh.MeshProvider(), bindGroups); err != nil {
			return drawn, err
		}
		drawn++
	}
	return drawn, nil
}

// sameCameraLayout reports whether two programs can share one camera bind group.
func sameCameraLayout(a, b *Context) bool {
	if a.cameraGroup != b.cameraGroup || a.cameraLayout.Binding != b.cameraLayout.Binding {
		return false
	}
	if a.cameraLayout.Size != b.cameraLayout.Size || !slices.Equal(a.cameraLayout.Fields, b.cameraLayout.Fields) {
		return false
	}
	ea := a.Pipeline.BindGroupLayoutDescriptors()[a.cameraGroup].Entries
	eb := b.Pipeline.BindGroupLayoutDescriptors()[b.cameraGroup].Entries
	return slices.EqualFunc(ea, eb, func(x, y wgpu.BindGroupLayoutEntry) bool {
		return x.Binding == y.Binding && x.Visibility == y.Visibility &&
			x.Buffer.Type == y.Buffer.Type && x.Buffer.MinBindingSize == y.Buffer.MinBindingSize
	})
}

// release frees the buffers and bind groups of every item and of the earth bindings.
func (c *Context) release() {
	for _, item := range c.items {
		item.Mesh.MeshProvider().Release()
		item.Mesh.ModelProvider().Release()
	}
	if c.params != nil {
		c.params.provider.Release()
	}
	if c.textures != nil {
		c.textures.Release()
	}
}
