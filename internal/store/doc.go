// Package store keeps timelines and render history in SQLite.
//
// Timelines are always replaced wholesale inside one transaction, mirroring
// how the timeline builder recomputes them from scratch. Writes retry briefly
// when the database is busy.
package store
