package scene

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/citymap/pkg/math"
)

func TestClassify(t *testing.T) {
	mat := &Material{}
	tests := []struct {
		name string
		obj  *Object
		want Kind
	}{
		{"building", &Object{Name: "Library_Main", Material: mat}, KindBuilding},
		{"ground plane", &Object{Name: "Plane.001", Material: mat}, KindGround},
		{"suffixed plane", &Object{Name: "Ground_Plane", Material: mat}, KindGround},
		{"plane inside a word", &Object{Name: "Airplane_Hangar", Material: mat}, KindBuilding},
		{"lowercase plane", &Object{Name: "plane_museum", Material: mat}, KindBuilding},
		{"empty node", &Object{Name: "Empty"}, KindOther},
		{"light wins", &Object{Name: "Lamp", Material: mat, IsLight: true}, KindPointLight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.obj); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.obj.Name, got, tt.want)
			}
		})
	}
}

func TestSceneGraph(t *testing.T) {
	s := New()
	a := NewObject("Block_A")
	a.Kind = KindBuilding
	b := NewObject("Block_B")
	b.Kind = KindBuilding
	lamp := NewObject("Lamp")
	lamp.Kind = KindPointLight

	s.Add(a)
	a.Add(lamp)
	s.Add(b)

	if got := s.Buildings(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("Buildings() = %v", got)
	}
	if s.Find("Lamp") != lamp {
		t.Error("Find should locate nested objects")
	}

	// Removing during traversal must not skip siblings.
	visited := 0
	s.Traverse(func(o *Object) {
		visited++
		if o.Kind == KindPointLight {
			s.Remove(o)
		}
	})
	if visited != 3 {
		t.Errorf("visited %d objects, want 3", visited)
	}
	if s.Find("Lamp") != nil {
		t.Error("lamp should have been removed")
	}
	if lamp.Parent != nil {
		t.Error("removed object must be detached")
	}
}

func TestAABB(t *testing.T) {
	var empty AABB
	if !empty.Empty() {
		t.Error("zero AABB should be empty")
	}

	box := NewAABB(math.Vec3{X: 2, Y: 2, Z: 2}, math.Vec3{X: -2, Y: 0, Z: -2})
	if box.Min != [3]float32{-2, 0, -2} || box.Max != [3]float32{2, 2, 2} {
		t.Errorf("NewAABB should sort corners, got %v", box)
	}
	if c := box.Center(); c != (math.Vec3{X: 0, Y: 1, Z: 0}) {
		t.Errorf("Center = %v", c)
	}

	u := empty.Union(box)
	if u.Min != box.Min || u.Max != box.Max {
		t.Errorf("union with empty = %v, want %v", u, box)
	}

	moved := box.Transform(math.Translate(10, 0, 0))
	if moved.Min[0] != 8 || moved.Max[0] != 12 {
		t.Errorf("Transform = %v", moved)
	}
}

const testGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0, 1, 2]}],
  "nodes": [
    {"name": "Library_Main", "mesh": 0, "translation": [10, 0, 0]},
    {"name": "Plane", "mesh": 0, "scale": [50, 0.1, 50]},
    {"name": "Lamp", "translation": [0, 5, 0], "extensions": {"KHR_lights_punctual": {"light": 0}}}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "material": 0}]}],
  "materials": [{"name": "brick", "pbrMetallicRoughness": {"baseColorFactor": [0.5, 0.25, 0.125, 1]}}],
  "accessors": [{"componentType": 5126, "count": 8, "type": "VEC3", "min": [-1, 0, -1], "max": [1, 4, 1]}]
}`

func TestLoadGLTF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.gltf")
	if err := os.WriteFile(path, []byte(testGLTF), 0644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}

	s, err := Load(context.Background(), path, 2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	lib := s.Find("Library_Main")
	if lib == nil {
		t.Fatal("building not loaded")
	}
	if lib.Kind != KindBuilding || !lib.CastShadow || !lib.ReceiveShadow {
		t.Errorf("library classified as %v (cast=%v receive=%v)", lib.Kind, lib.CastShadow, lib.ReceiveShadow)
	}
	if lib.Material == nil || lib.Material.Name != "brick" || lib.Material.Color.R != 0.5 {
		t.Errorf("material = %+v", lib.Material)
	}
	// translation 10 and unit box scaled by 2 at the root
	if lib.Bounds.Min[0] != 18 || lib.Bounds.Max[0] != 22 || lib.Bounds.Max[1] != 8 {
		t.Errorf("bounds = %+v", lib.Bounds)
	}

	ground := s.Find("Plane")
	if ground == nil || ground.Kind != KindGround || ground.CastShadow || !ground.ReceiveShadow {
		t.Errorf("ground = %+v", ground)
	}

	lamp := s.Find("Lamp")
	if lamp == nil || lamp.Kind != KindPointLight {
		t.Errorf("lamp = %+v", lamp)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(context.Background(), "/nonexistent/map.glb", 1); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, "/nonexistent/map.glb", 1); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
