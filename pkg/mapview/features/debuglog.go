package features

import (
	"go.uber.org/zap"

	"github.com/Faultbox/citymap/pkg/mapview"
	"github.com/Faultbox/citymap/pkg/scene"
)

// DebugLog logs every hook call at debug level.
type DebugLog struct {
	log *zap.Logger
}

// NewDebugLog creates a hook logger. A nil logger means the renderer's own.
func NewDebugLog(log *zap.Logger) *DebugLog {
	return &DebugLog{log: log}
}

func (d *DebugLog) Setup(r *mapview.Renderer) error {
	if d.log == nil {
		d.log = r.Logger()
	}
	d.log = d.log.Named("hooks")
	d.log.Debug("setup", zap.String("renderer", r.ID()))
	return nil
}

func (d *DebugLog) Cleanup(r *mapview.Renderer) {
	d.log.Debug("cleanup", zap.String("renderer", r.ID()))
}

func (d *DebugLog) OnHoverBuilding(e mapview.PointerEvent) { d.pointer("hover", e) }
func (d *DebugLog) OnClickBuilding(e mapview.PointerEvent) { d.pointer("click", e) }
func (d *DebugLog) OnMoveBuilding(e mapview.PointerEvent)  { d.pointer("move", e) }
func (d *DebugLog) OnExitBuilding(e mapview.PointerEvent)  { d.pointer("exit", e) }
func (d *DebugLog) OnControlStart()                        { d.log.Debug("control start") }
func (d *DebugLog) OnControlEnd()                          { d.log.Debug("control end") }

func (d *DebugLog) OnResize(s mapview.Size) {
	d.log.Debug("resize", zap.Int("width", s.Width), zap.Int("height", s.Height))
}

func (d *DebugLog) OnToggleFullscreen(fs bool) {
	d.log.Debug("toggle fullscreen", zap.Bool("fullscreen", fs))
}

func (d *DebugLog) OnFocusBuilding(obj *scene.Object) {
	d.log.Debug("focus", zap.String("building", obj.Name))
}

func (d *DebugLog) OnTraverseSceneChild(obj *scene.Object) {
	d.log.Debug("traverse", zap.String("object", obj.Name), zap.Stringer("kind", obj.Kind))
}

func (d *DebugLog) pointer(hook string, e mapview.PointerEvent) {
	d.log.Debug(hook,
		zap.String("building", e.Object.Name),
		zap.Float32("x", e.X),
		zap.Float32("y", e.Y))
}
