// Package services defines shared helpers consumed by the assembly stages.
//
// Key responsibilities:
//   - Context helpers that stamp render IDs, project names, tiers and stage
//     names for logging.
//   - Structured error markers plus the Wrap helper so fatal failures (missing
//     narration, failed encode) are distinguishable from contained ones.
//
// Use these helpers when wiring new stage logic so error classification and
// log correlation stay uniform across the pipeline.
package services
