// Package construct implements the derived-construction operations: recipes
// that detect existing geometry, select candidates under a policy, build new
// primitives from them, and emit the primitives through the drawing Sink.
//
// Every operation follows the same pipeline: DETECT (via the detect package
// or the EntitySource port) → SELECT (all capped, largest-by-area, or
// largest-by-radius) → CONSTRUCT → EMIT.
//
// Operations never fail on a single bad emission: per-primitive Sink errors
// are counted as skipped and the batch completes, reporting how many
// primitives were actually inserted. Absence of usable input (no squares, no
// circles, empty model) is reported as a Result with OK=false and a reason
// code, never as an error. Every operation is therefore safe to call
// repeatedly and to compose into a retrying caller.
package construct
