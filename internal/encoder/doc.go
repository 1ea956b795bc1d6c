// Package encoder runs the external ASTC encoder.
//
// The pipeline depends only on the [Encoder] interface; [Astcenc] is the
// production implementation that shells out to astcenc, and [Func] adapts
// a plain function for tests.
//
// A zero exit status is taken to mean the destination file was written; the
// pipeline checks its header separately. Any other outcome is returned as an
// *ExecError carrying the captured encoder output.
package encoder
