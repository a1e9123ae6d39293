// Package filesystem implements the Fetcher for file:// locators, which copy
// an artifact from a local mirror or a mounted share.
package filesystem
