package scene

import (
	"context"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/citymap/pkg/math"
)

// lightsExtension is the glTF extension carrying punctual lights on nodes.
const lightsExtension = "KHR_lights_punctual"

// Load reads a glTF (.gltf or .glb) scene file and converts its default scene
// into a scene graph. scale is applied uniformly at the root. Objects are
// classified with Classify; buildings cast and receive shadows, ground only
// receives them.
func Load(ctx context.Context, path string, scale float32) (*Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scene %s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FromDocument(doc, scale)
}

// FromDocument converts a decoded glTF document.
func FromDocument(doc *gltf.Document, scale float32) (*Scene, error) {
	s := New()
	if len(doc.Scenes) == 0 {
		return s, nil
	}

	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = int(*doc.Scene)
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene index %d out of range", sceneIdx)
	}

	root := math.Scale(scale, scale, scale)
	c := converter{doc: doc}
	for _, idx := range doc.Scenes[sceneIdx].Nodes {
		obj, err := c.node(int(idx), root, 0)
		if err != nil {
			return nil, err
		}
		s.Add(obj)
	}
	return s, nil
}

type converter struct {
	doc *gltf.Document
}

// maxDepth guards against cyclic node references in malformed files.
const maxDepth = 64

func (c *converter) node(idx int, parent math.Mat4, depth int) (*Object, error) {
	if idx < 0 || idx >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if depth > maxDepth {
		return nil, fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxDepth)
	}
	n := c.doc.Nodes[idx]

	world := parent.Mul(localMatrix(n))
	obj := NewObject(n.Name)
	if obj.Name == "" {
		obj.Name = fmt.Sprintf("node_%d", idx)
	}
	obj.Position = world.TransformPoint(math.Vec3{})

	if _, ok := n.Extensions[lightsExtension]; ok {
		obj.IsLight = true
	}

	if n.Mesh != nil {
		if err := c.mesh(obj, int(*n.Mesh), world); err != nil {
			return nil, fmt.Errorf("node %q: %w", obj.Name, err)
		}
	}

	obj.Kind = Classify(obj)
	switch obj.Kind {
	case KindBuilding:
		obj.CastShadow = true
		obj.ReceiveShadow = true
	case KindGround:
		obj.ReceiveShadow = true
	}

	for _, child := range n.Children {
		co, err := c.node(int(child), world, depth+1)
		if err != nil {
			return nil, err
		}
		obj.Add(co)
	}
	return obj, nil
}

func (c *converter) mesh(obj *Object, idx int, world math.Mat4) error {
	if idx < 0 || idx >= len(c.doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", idx)
	}

	var local AABB
	for _, prim := range c.doc.Meshes[idx].Primitives {
		if acc, ok := prim.Attributes["POSITION"]; ok && int(acc) < len(c.doc.Accessors) {
			a := c.doc.Accessors[acc]
			if len(a.Min) >= 3 && len(a.Max) >= 3 {
				local = local.Union(NewAABB(
					math.Vec3{X: float32(a.Min[0]), Y: float32(a.Min[1]), Z: float32(a.Min[2])},
					math.Vec3{X: float32(a.Max[0]), Y: float32(a.Max[1]), Z: float32(a.Max[2])},
				))
			}
		}
		if obj.Material == nil && prim.Material != nil {
			obj.Material = c.material(int(*prim.Material))
		}
	}
	obj.Bounds = local.Transform(world)
	return nil
}

func (c *converter) material(idx int) *Material {
	m := &Material{Color: colorful.Color{R: 1, G: 1, B: 1}}
	if idx < 0 || idx >= len(c.doc.Materials) {
		return m
	}
	src := c.doc.Materials[idx]
	m.Name = src.Name
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		f := *pbr.BaseColorFactor
		m.Color = colorful.Color{R: f[0], G: f[1], B: f[2]}
	}
	return m
}

func localMatrix(n *gltf.Node) math.Mat4 {
	t := math.Vec3{X: float32(n.Translation[0]), Y: float32(n.Translation[1]), Z: float32(n.Translation[2])}

	r := math.Quat{X: float32(n.Rotation[0]), Y: float32(n.Rotation[1]), Z: float32(n.Rotation[2]), W: float32(n.Rotation[3])}
	if r == (math.Quat{}) {
		r = math.QuatIdentity()
	}

	s := math.Vec3{X: float32(n.Scale[0]), Y: float32(n.Scale[1]), Z: float32(n.Scale[2])}
	if s == (math.Vec3{}) {
		s = math.Vec3{X: 1, Y: 1, Z: 1}
	}

	return math.Compose(t, r, s)
}
