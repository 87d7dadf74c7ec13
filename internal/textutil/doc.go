// Package textutil holds small string helpers shared by the CLI and the
// assembler.
package textutil
