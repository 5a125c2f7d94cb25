// Package release resolves the newest published release of the script
// bundle from a GitHub-style REST endpoint.
//
// A single GET is issued per call with no retry. Callers treat any failure as
// fatal to the launch flow.
package release
