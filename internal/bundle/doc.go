// Package bundle turns a release tag into a usable working directory.
//
// The archive for a tag lives at <DownloadDir>/<Name>-<tag>.zip and is
// unpacked into <ExtractRoot>/<Name>-<tag>. The working directory only comes
// into existence once extraction has completed: entries are written into a
// hidden staging directory which is renamed into place at the end. An
// existing working directory is therefore trusted as-is and never
// re-extracted.
//
// Extraction is serialized across processes by a lock file in ExtractRoot.
//
// The package also carries the updater half of the launcher: a Downloader with
// retry and atomic placement, and a Verifier that checks a fetched archive
// against a SHA-256 digest or a detached OpenPGP signature.
package bundle
