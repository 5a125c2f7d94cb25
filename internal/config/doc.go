// Package config persists the launcher's user settings as a flat JSON
// document inside the working directory.
//
// Loading merges the file with the defaults: keys missing from the file are
// backfilled, keys present are kept verbatim, and keys this version does not
// know about survive untouched with their original JSON value. The merged
// document is written back immediately so the file always carries every
// default key.
//
// A Config is shared by the browser and the settings editor and may be read
// and written from different goroutines.
package config
