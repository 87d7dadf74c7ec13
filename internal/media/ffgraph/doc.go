// Package ffgraph implements the clip capability interfaces as an ffmpeg
// filtergraph.
//
// Nodes are immutable descriptions; nothing is decoded until Build flattens a
// composition into -i arguments and a single -filter_complex string that the
// render package hands to ffmpeg. Looping an untouched file input folds into
// -stream_loop, while looping trimmed content uses the loop/aloop filters.
// Text overlays become drawtext filters reading from files in the work
// directory, one filter per wrapped line.
package ffgraph
