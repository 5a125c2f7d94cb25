// Package profile loads the deployment profile that selects launcher
// behavior: whether the UI follows the configured color scheme, which file
// extension the browser lists, whether empty folders may be deleted and which
// interpreter runs a script.
//
// A profile is either a Lua file evaluated in a sandboxed VM with a
// read-only platform table, or a TOML document:
//
//	launcher = {
//	  extension_filter = ".py",
//	  allow_folder_delete = true,
//	  interpreter = platform.is_windows and "python" or "python3",
//	}
//
// Keys left out keep their defaults.
package profile
