// Package features provides ready-made mapview features: tooltips,
// hover/selection highlighting, automatic resizing, callback relaying and
// hook logging.
package features
