// Package shell opens scripts in a new interactive terminal and reveals
// directories in the platform file manager.
//
// Execute composes a "change directory, pause, invoke" command line for the
// user's shell and hands it to a terminal emulator:
//
//	cd '/tmp/Python-Utilities-v1/TextPrograms' && echo 'Press Enter to execute cipher.py' && read -r _ && python3 'cipher.py'; exec bash
//
// Spawned processes are detached and never awaited. Only spawn-time failures
// (no terminal available, exec failure) are reported; the exit status of the
// script is not observed.
//
// # Terminal selection
//
//   - Windows: a new console running cmd.exe /K (or PowerShell -NoExit)
//   - macOS: Terminal.app through osascript
//   - Linux: $TERMINAL, then x-terminal-emulator on Debian-family systems,
//     then gnome-terminal, konsole, xfce4-terminal and xterm
package shell
