// Package main hosts the clipforge CLI entrypoint and command graph.
//
// Commands load configuration once through commandContext, then hand off to
// the internal packages: assembly for render and timeline, render for encoder
// probing, preflight for check, and store for render history. Tables are
// drawn with go-pretty on a terminal and written tab-separated otherwise, so
// output stays scriptable.
package main
