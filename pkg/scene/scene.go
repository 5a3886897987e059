// Package scene holds the map scene graph: named objects with world-space
// bounds, classified into buildings, ground and point lights.
package scene

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/citymap/pkg/math"
)

// Kind classifies a scene object.
type Kind int

const (
	KindOther Kind = iota
	KindBuilding
	KindGround
	KindPointLight
)

func (k Kind) String() string {
	switch k {
	case KindBuilding:
		return "building"
	case KindGround:
		return "ground"
	case KindPointLight:
		return "point-light"
	default:
		return "other"
	}
}

// groundMarker marks the exported names of ground planes ("Plane", "Plane.001",
// "Ground_Plane"). The match is case sensitive so "Airplane_Hangar" stays a building.
const groundMarker = "Plane"

// Material is the surface of a mesh object.
type Material struct {
	Name  string
	Color colorful.Color
}

// Object is a node of the scene graph.
type Object struct {
	Name     string
	Kind     Kind
	Position math.Vec3 // world-space origin
	Bounds   AABB      // world-space bounds of the mesh, zero for empty nodes
	Material *Material // nil for non-mesh nodes

	IsLight       bool
	Visible       bool
	CastShadow    bool
	ReceiveShadow bool

	Parent   *Object
	Children []*Object
}

// NewObject creates a visible, unparented object.
func NewObject(name string) *Object {
	return &Object{Name: name, Visible: true}
}

// Add appends child to o, detaching it from any previous parent.
func (o *Object) Add(child *Object) {
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	child.Parent = o
	o.Children = append(o.Children, child)
}

// Remove detaches child from o. It reports whether child was found.
func (o *Object) Remove(child *Object) bool {
	for i, c := range o.Children {
		if c == child {
			o.Children = append(o.Children[:i], o.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// Center returns the world-space center of the object's bounds, or its
// position when it has no mesh.
func (o *Object) Center() math.Vec3 {
	if o.Bounds.Empty() {
		return o.Position
	}
	return o.Bounds.Center()
}

// Traverse calls fn for o and every descendant, depth first, parents first.
func (o *Object) Traverse(fn func(*Object)) {
	fn(o)
	// Copy so fn may detach children while iterating.
	children := append([]*Object(nil), o.Children...)
	for _, c := range children {
		c.Traverse(fn)
	}
}

// Classify derives the kind of an object from its light flag, material and name.
// A mesh that does not look like a ground plane is a building.
func Classify(o *Object) Kind {
	switch {
	case o.IsLight:
		return KindPointLight
	case o.Material == nil:
		return KindOther
	case strings.Contains(o.Name, groundMarker):
		return KindGround
	default:
		return KindBuilding
	}
}

// Scene is a loaded map.
type Scene struct {
	Root *Object
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{Root: NewObject("root")}
}

// Traverse walks every object below the root.
func (s *Scene) Traverse(fn func(*Object)) {
	children := append([]*Object(nil), s.Root.Children...)
	for _, c := range children {
		c.Traverse(fn)
	}
}

// Add attaches an object to the root.
func (s *Scene) Add(o *Object) {
	s.Root.Add(o)
}

// Remove detaches o from wherever it sits in the graph.
func (s *Scene) Remove(o *Object) bool {
	if o.Parent == nil {
		return false
	}
	return o.Parent.Remove(o)
}

// Buildings returns every building in traversal order.
func (s *Scene) Buildings() []*Object {
	var out []*Object
	s.Traverse(func(o *Object) {
		if o.Kind == KindBuilding {
			out = append(out, o)
		}
	})
	return out
}

// Find returns the first object with the given name.
func (s *Scene) Find(name string) *Object {
	var found *Object
	s.Traverse(func(o *Object) {
		if found == nil && o.Name == name {
			found = o
		}
	})
	return found
}

// Bounds returns the union of all object bounds.
func (s *Scene) Bounds() AABB {
	var b AABB
	s.Traverse(func(o *Object) {
		b = b.Union(o.Bounds)
	})
	return b
}
