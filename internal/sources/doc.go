// Package sources reads the four raw annotation inputs and joins them into
// one ordered per-segment record stream keyed by vid_seg identifiers.
package sources
