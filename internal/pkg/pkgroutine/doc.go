// Package pkgroutine runs bounded groups of goroutines.
//
// A Manager caps concurrency and turns task errors, panics and cancellations
// into one joined error, so a caller fanning out per-file work can wait for
// every task and still tell which ones did not finish.
package pkgroutine
