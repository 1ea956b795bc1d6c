// Package naming derives the .astc uri for a source texture uri and resolves
// collisions between distinct sources that would share one output.
//
// Names stay in uri space (forward slashes, percent-escapes untouched);
// callers map them to filesystem paths with gltf.URIToPath.
package naming
