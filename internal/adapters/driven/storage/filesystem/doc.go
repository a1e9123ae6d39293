// Package filesystem stores cached artifacts as plain files in one directory.
//
// Each artifact is a single file named exactly after its registered name.
// New copies are written to a hidden temporary file in the same directory
// and renamed into place, so a reader never sees a partially written
// artifact under its real name.
package filesystem
