// Package asrl defines the core data model for action-centric semantic role
// labeling: segments, verb occurrences, region proposals, and grounded
// arguments. All types are immutable once produced by their owning stage.
package asrl
