// Package textlayout estimates rendered text width and wraps caption text to
// a pixel box without splitting words.
package textlayout
