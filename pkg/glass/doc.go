// Package glass contains the stained-glass synthesis core: parameter
// resolution (param), shape generation (shape), boundary segmentation
// (region), distance-field compositing (compose), tiled rendering (tile),
// and artifact encoding (sink). The packages compose into the pipeline
// resolve → generate → rasterize → segment → composite → stitch; see
// pkg/pipeline for the orchestrated flow.
package glass
