// Package preflight provides readiness checks for the binaries and paths a
// render depends on.
//
// These checks run in two contexts:
//   - "clipforge render" calls CheckSystemDeps before assembling and refuses
//     to start when ffmpeg or ffprobe is missing.
//   - "clipforge check" prints every check as a table.
//
// Checks for optional inputs are gated by their config toggle.
package preflight
