// Command srlprep converts raw video caption, SRL, and entity-box
// annotations into index-aligned ASRL training artifacts under a cached,
// idempotent pipeline.
package main
