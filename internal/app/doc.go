// Package app holds process-level configuration (flags, environment, logger)
// and the startup sequence shared by the window and the headless commands:
// resolve the release tag, materialize the bundle, load the configuration
// and the deployment profile, then build a Browser.
package app
