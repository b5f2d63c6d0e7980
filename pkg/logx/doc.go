// Package logx is a small structured-logging wrapper on top of zerolog,
// used by components that write their own log lines outside the main
// slog pipeline (the storage layer, mostly). It keeps console output
// readable (short timestamp + short caller) and JSON sinks structured.
package logx
