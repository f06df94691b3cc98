// Package attrs implements the hierarchical attribute store that module
// contributions merge into.
//
// A store maps dotted paths such as "toolchain.channel" or "shell.env.RUST_LOG"
// to tagged values: scalars, ordered lists, nested stores, or artifact
// references. Stores are immutable; Apply merges a Delta and returns a new
// store, leaving the receiver untouched. Merge follows three rules: scalars
// and artifact references are set-once, lists concatenate in contribution
// order, and nested stores merge recursively. Any other collision is a
// ConflictError naming both contributors.
//
// Every leaf remembers which modules wrote it, so conflict messages and the
// eval view can attribute each attribute to its source.
package attrs
