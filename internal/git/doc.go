// Package git reads metadata from the working copy that contains a manifest:
// the repository root, the origin remote and the checked out branch or tag.
//
// Everything is read through go-git; no git binary is required.
package git
