// Package cache provides file-based caching with TTL expiration for Blender
// scene queries.
//
// Reading a scene means launching Blender, which takes seconds. Entries are
// stored as JSON files in ~/.spritebatch/cache/ and keyed by the blend file's
// absolute path, size and modification time, so editing the file invalidates
// its entry.
package cache
