// Package exec runs external tools on behalf of capnp-fetch.
//
// The package knows nothing about capnp or CMake. It provides two pieces:
//
// 1. Executor - runs a command with context support, streamed or captured output, and an optional spinner
// 2. GenericCommand - fluent builder over an Executor
//
// # Basic Usage
//
//	executor := exec.NewExecutor(nil)
//	err := executor.Run(ctx, "cmake", "--version")
//
// Capture stdout instead of streaming it:
//
//	out, err := executor.Output(ctx, "capnp", "--version")
//
// # Errors
//
// Failures to spawn a process are reported as *StartError and non-zero exits
// as *ExitError, so callers can tell "could not run" from "ran and failed"
// with errors.As.
//
// # Testing
//
// Executor.commandFunc defaults to os/exec.Command and is swapped in tests for
// a helper-process re-exec, see exec_test.go.
package exec
