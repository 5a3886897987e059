// Package renderer draws map frames with OpenGL 4.1.
//
// Buildings and ground planes are drawn as their world-space bounding boxes,
// lit by an ambient term, the sun (with an optional shadow map) and any point
// lights left in the scene. When the frame carries a composer the image is
// rendered offscreen and run through its passes before it is presented.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/citymap/internal/engine/framebuffer"
	"github.com/Faultbox/citymap/internal/engine/shader"
	"github.com/Faultbox/citymap/internal/engine/shadow"
	"github.com/Faultbox/citymap/pkg/mapview"
	"github.com/Faultbox/citymap/pkg/math"
)

// outlineMargin grows outlined boxes so the lines sit outside the faces.
const outlineMargin = 0.05

// Renderer is a mapview.Backend. All methods must run on the thread that
// owns the GL context.
type Renderer struct {
	log  *zap.Logger
	opts mapview.BackendOptions
	size mapview.Size

	lit, depth, flat, copyProg, fxaa *shader.Program

	cubeVAO, cubeVBO uint32
	quadVAO, quadVBO uint32

	shadows *shadow.Map
	targets [2]*framebuffer.Framebuffer
}

// New initializes GL and creates the programs and meshes. Every GL object is
// registered with opts.Tracker.
func New(opts mapview.BackendOptions) (*Renderer, error) {
	if opts.Tracker == nil {
		return nil, fmt.Errorf("renderer: no resource tracker")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{log: log.Named("gl"), opts: opts, size: opts.Size}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("power_preference", string(opts.PowerPreference)),
		zap.Bool("antialias", opts.Antialias),
		zap.Bool("shadows", opts.Shadows))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	if opts.Antialias {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}

	programs := []struct {
		dst      **shader.Program
		name     string
		vert, fr string
	}{
		{&r.lit, "lit", litVertex, litFragment},
		{&r.depth, "depth", depthVertex, depthFragment},
		{&r.flat, "flat", flatVertex, flatFragment},
		{&r.copyProg, "copy", quadVertex, copyFragment},
		{&r.fxaa, "fxaa", quadVertex, fxaaFragment},
	}
	for _, p := range programs {
		prog, err := shader.Compile(p.name, p.vert, p.fr)
		if err != nil {
			return nil, err
		}
		*p.dst = prog
		opts.Tracker.Track("program "+p.name, prog.Delete)
	}

	r.cubeVAO, r.cubeVBO = upload(CubeVertices(), 3, 3)
	opts.Tracker.Track("cube mesh", func() error { return deleteMesh(&r.cubeVAO, &r.cubeVBO) })
	r.quadVAO, r.quadVBO = upload(quadVertices, 2)
	opts.Tracker.Track("quad mesh", func() error { return deleteMesh(&r.quadVAO, &r.quadVBO) })

	// Targets are created lazily; one release covers whichever exist.
	opts.Tracker.Track("render targets", r.releaseTargets)
	opts.Tracker.Track("shadow map", r.releaseShadows)

	return r, nil
}

// upload creates a VAO/VBO pair with float attributes of the given sizes.
func upload(data []float32, sizes ...int32) (vao, vbo uint32) {
	var stride int32
	for _, s := range sizes {
		stride += s
	}

	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	var offset int32
	for i, s := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), s, gl.FLOAT, false, stride*4, uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += s
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

func deleteMesh(vao, vbo *uint32) error {
	if *vbo != 0 {
		gl.DeleteBuffers(1, vbo)
		*vbo = 0
	}
	if *vao != 0 {
		gl.DeleteVertexArrays(1, vao)
		*vao = 0
	}
	return nil
}

func (r *Renderer) releaseTargets() error {
	for i, t := range r.targets {
		if t != nil {
			t.Destroy()
			r.targets[i] = nil
		}
	}
	return nil
}

func (r *Renderer) releaseShadows() error {
	if r.shadows == nil {
		return nil
	}
	err := r.shadows.Destroy()
	r.shadows = nil
	return err
}

// SetSize changes the default framebuffer size.
func (r *Renderer) SetSize(size mapview.Size) {
	r.size = size
	for _, t := range r.targets {
		if t != nil {
			t.Resize(int32(size.Width), int32(size.Height))
		}
	}
	r.log.Debug("renderer resized", zap.Int("width", size.Width), zap.Int("height", size.Height))
}

// Render draws one frame.
func (r *Renderer) Render(f *mapview.Frame) error {
	draws, points := collect(f.Scene)
	viewProj := f.Camera.ViewProjection()

	lightViewProj := math.Identity()
	useShadows := r.opts.Shadows && f.Lights.Sun.CastShadow && len(draws) > 0
	if useShadows {
		if err := r.ensureShadowMap(int32(f.Lights.Sun.ShadowMapSize)); err != nil {
			return err
		}
		lightViewProj = shadow.LightMatrix(f.Lights.Sun.Direction, f.Scene.Bounds().Center(),
			f.Lights.Sun.ShadowExtent, f.Scene.Bounds())
		r.drawDepth(draws, lightViewProj)
	}

	offscreen := f.Composer != nil && len(f.Composer.Passes) > 1
	current := 0
	if offscreen {
		if err := r.ensureTargets(); err != nil {
			return err
		}
		r.targets[current].Bind()
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(r.size.Width), int32(r.size.Height))
	}

	bg := f.Colors.Background
	gl.ClearColor(float32(bg.R), float32(bg.G), float32(bg.B), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.drawLit(f, draws, points, viewProj, lightViewProj, useShadows)

	if !offscreen {
		return nil
	}

	for _, pass := range f.Composer.Passes {
		switch pass {
		case mapview.PassRender:
		case mapview.PassFXAA:
			next := 1 - current
			r.targets[next].Bind()
			r.fullscreen(r.fxaa, r.targets[current])
			current = next
		case mapview.PassOutline:
			r.drawOutline(f.Composer.Outline, viewProj)
		default:
			return fmt.Errorf("unknown pass %s", pass)
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.size.Width), int32(r.size.Height))
	r.fullscreen(r.copyProg, r.targets[current])
	return nil
}

func (r *Renderer) ensureShadowMap(resolution int32) error {
	if r.shadows != nil && r.shadows.Resolution == resolution {
		return nil
	}
	if err := r.releaseShadows(); err != nil {
		return err
	}
	sm, err := shadow.NewMap(resolution)
	if err != nil {
		return err
	}
	r.shadows = sm
	r.log.Debug("shadow map created", zap.Int32("resolution", resolution))
	return nil
}

func (r *Renderer) ensureTargets() error {
	for i := range r.targets {
		if r.targets[i] != nil {
			continue
		}
		fb, err := framebuffer.New(int32(r.size.Width), int32(r.size.Height))
		if err != nil {
			return err
		}
		r.targets[i] = fb
	}
	return nil
}

func (r *Renderer) drawDepth(draws []drawable, lightViewProj math.Mat4) {
	r.shadows.Bind()
	r.depth.Use()
	r.depth.SetMat4("uLightViewProj", lightViewProj)
	gl.BindVertexArray(r.cubeVAO)
	for _, d := range draws {
		if !d.castShadow {
			continue
		}
		r.depth.SetMat4("uModel", d.model)
		gl.DrawArrays(gl.TRIANGLES, 0, cubeVertexCount)
	}
	gl.BindVertexArray(0)
	r.shadows.Unbind()
}

func (r *Renderer) drawLit(f *mapview.Frame, draws []drawable, points []math.Vec3, viewProj, lightViewProj math.Mat4, shadows bool) {
	p := r.lit
	p.Use()
	p.SetMat4("uViewProj", viewProj)
	p.SetMat4("uLightViewProj", lightViewProj)
	p.SetColor("uAmbientColor", f.Lights.Ambient.Color)
	p.SetFloat("uAmbient", f.Lights.Ambient.Intensity)
	p.SetColor("uSunColor", f.Lights.Sun.Color)
	p.SetVec3("uSunDir", f.Lights.Sun.Direction)
	p.SetFloat("uSun", f.Lights.Sun.Intensity)
	p.SetColor("uTopColor", f.Lights.Top.Color)
	p.SetVec3("uTopDir", f.Lights.Top.Direction)
	p.SetFloat("uTop", f.Lights.Top.Intensity)
	p.SetFloat("uPoint", f.Lights.Point)
	p.SetInt("uPointCount", int32(len(points)))
	for i, pt := range points {
		p.SetVec3(fmt.Sprintf("uPoints[%d]", i), pt)
	}
	if shadows {
		p.SetInt("uShadows", 1)
		r.shadows.BindTexture(gl.TEXTURE0)
		p.SetInt("uShadowMap", 0)
	} else {
		p.SetInt("uShadows", 0)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.BindVertexArray(r.cubeVAO)
	for _, d := range draws {
		p.SetMat4("uModel", d.model)
		p.SetColor("uColor", d.color)
		gl.DrawArrays(gl.TRIANGLES, 0, cubeVertexCount)
	}
	gl.BindVertexArray(0)
}

// drawOutline draws wireframe boxes around hovered and selected objects on
// top of the current target.
func (r *Renderer) drawOutline(o *mapview.OutlinePass, viewProj math.Mat4) {
	if o == nil || len(o.Hovered)+len(o.Selected) == 0 {
		return
	}
	p := r.flat
	p.Use()
	p.SetMat4("uViewProj", viewProj)

	gl.Disable(gl.DEPTH_TEST)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	gl.LineWidth(max(o.EdgeStrength/3, 1))
	gl.BindVertexArray(r.cubeVAO)

	p.SetColor("uColor", o.Color)
	for _, obj := range o.Hovered {
		p.SetMat4("uModel", OutlineMatrix(obj.Bounds, outlineMargin))
		gl.DrawArrays(gl.TRIANGLES, 0, cubeVertexCount)
	}
	p.SetColor("uColor", o.SelectedColor)
	for _, obj := range o.Selected {
		p.SetMat4("uModel", OutlineMatrix(obj.Bounds, outlineMargin))
		gl.DrawArrays(gl.TRIANGLES, 0, cubeVertexCount)
	}

	gl.BindVertexArray(0)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Enable(gl.DEPTH_TEST)
}

// fullscreen samples src into the bound target through prog.
func (r *Renderer) fullscreen(prog *shader.Program, src *framebuffer.Framebuffer) {
	w, h := src.Size()
	prog.Use()
	src.BindTexture(gl.TEXTURE0)
	prog.SetInt("uScene", 0)
	prog.SetVec2("uTexel", 1/float32(w), 1/float32(h))

	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// ReadPixels reads the back buffer of the default framebuffer as bottom-up
// RGBA rows. Call it right after a Render, before the buffers are swapped.
func ReadPixels(size mapview.Size) []byte {
	if size.Width <= 0 || size.Height <= 0 {
		return nil
	}
	pixels := make([]byte, size.Width*size.Height*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(size.Width), int32(size.Height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
