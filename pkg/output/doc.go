// Package output provides styled diagnostic output for capnp-fetch.
//
// # Overview
//
// capnp-fetch runs inside a host build script, where stdout is parsed for
// build directives. Everything in this package therefore writes to stderr
// by default. Use SetWriter to redirect it, typically in tests.
//
// # Usage
//
//	output.Info("Couldn't find a local capnp")
//	output.Step("building...")
//	output.Success("capnp acquired")
//	output.Warn("System capnp is too old")
//	output.Error("native build failed")
//
// # Verbose Mode
//
//	output.SetVerbose(true)
//	output.Verbose("cmake -S capnproto -B out/build -G Ninja")
//
// # Styling
//
//   - Success: 🔥 green bold
//   - Error: ❌ red bold
//   - Warn: ⚠️ yellow bold
//   - Info: ℹ️ cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
package output
