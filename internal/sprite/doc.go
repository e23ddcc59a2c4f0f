// Package sprite computes the work list for a sprite batch render.
//
// A batch renders every frame of a frame range from N evenly spaced rotation
// angles. This package turns a BatchSpec into a validated Plan and then into an
// ordered, lazily generated sequence of Shots, each carrying the rotation angle
// and the output path for one image. Key properties:
//   - Pure: no disk, network, or renderer access; re-enumerating a Plan yields
//     identical Shots
//   - Row-major ordering: frames ascending, rotation steps ascending within a frame
//   - Explicit shortage policies for frame and angle name schemes (strict or clamp)
//   - Two-slot path templates (frame name, then angle name) validated up front
//
// Rendering and orientation changes are owned by the caller; see package engine.
package sprite
