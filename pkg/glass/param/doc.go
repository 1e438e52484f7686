// Package param turns declarative generation templates into concrete numeric
// parameters.
//
// A template declares every tunable of a generation as either a plain
// constant or a SeededValue: a range, a beta-distribution shape, and an
// optional coupling to one dimension of the sentiment vector. Resolve
// materializes the template into a ResolvedConfig by sampling each seeded
// value once; the ResolvedConfig is immutable and drives every downstream
// stage of that generation.
//
// Templates are loaded from TOML files (see LoadTemplate) or taken from the
// compiled-in Default.
package param
