// Package project reads the on-disk project layout produced by upstream
// tools: project.json, script.txt, voiceover.mp3 and the footage directory.
//
// The assembler treats a project as read-only input. The only file it writes
// back is timeline.json, through FileSink.
package project
