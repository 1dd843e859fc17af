// Package docref normalizes document snapshots from remote stores into plain
// data trees and splits out embedded references so callers can resolve them
// independently. The core entry point is Extract, which walks a Document
// against its previously resolved version and returns a reference-free copy
// of the data alongside a flat map of the references it found.
package docref
