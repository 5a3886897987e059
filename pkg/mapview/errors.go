package mapview

import "errors"

var (
	// ErrInvalidQuality is returned for a quality tier outside 0-10.
	ErrInvalidQuality = errors.New("mapview: quality must be between 0 and 10")
	// ErrNoTarget is returned when BasicSettings has no target surface.
	ErrNoTarget = errors.New("mapview: no target surface")
	// ErrNoSceneFile is returned when BasicSettings has no scene file.
	ErrNoSceneFile = errors.New("mapview: no scene file")
	// ErrInvalidCanvas is returned for a non-positive canvas size or global scale.
	ErrInvalidCanvas = errors.New("mapview: invalid canvas settings")
	// ErrUnknownTimeOfDay is returned when no palette exists for a time-of-day tag.
	ErrUnknownTimeOfDay = errors.New("mapview: unknown time of day")
	// ErrInvalidPalette is returned when a palette colour cannot be parsed.
	ErrInvalidPalette = errors.New("mapview: invalid palette colour")
	// ErrInvalidLogLevel is returned for an unknown Misc.LogLevel.
	ErrInvalidLogLevel = errors.New("mapview: invalid log level")

	// ErrCapabilityMissing is returned by feature setup when the renderer
	// lacks something the feature depends on.
	ErrCapabilityMissing = errors.New("mapview: capability missing")
	// ErrFeatureInUse is returned when a feature is already set up on another live renderer.
	ErrFeatureInUse = errors.New("mapview: feature already bound to a live renderer")

	// ErrFullscreenUnsupported is returned when the surface offers no fullscreen method.
	ErrFullscreenUnsupported = errors.New("mapview: fullscreen unsupported")
	// ErrNoBuildings is logged when a focus-by-name request finds no buildings.
	ErrNoBuildings = errors.New("mapview: no buildings loaded")
	// ErrDisposed is returned by operations on a disposed renderer.
	ErrDisposed = errors.New("mapview: renderer disposed")
)
