// Package pipeline is the converter. It rewrites every file-backed image
// entry of a glTF document to point at an ASTC 6x6 encoding of its texture
// and writes the document back.
//
// Each entry is one unit of work (mutate fields → encode → verify → delete
// original). Units run one at a time by default; with Config.Jobs > 1 they
// run on a bounded pool, and results are folded back in document order so
// the written document does not depend on scheduling.
package pipeline
