// Package acquire decides where the capnp compiler for this build comes from.
//
// The flow is:
//
//	Pipeline.Run
//	  ├── RerunIfChanged(<vendored source>)
//	  ├── ResolveOutDir(OUT_DIR)
//	  ├── Orchestrator.Acquire
//	  │     ├── ParseHostOS
//	  │     ├── Discovery.Discover      → SystemLocation
//	  │     └── Builder.Build (fallback) → LocallyBuiltLocation
//	  └── Emitter.Emit(extract_bin.rs)
//
// Discovery failures are recoverable unless Policy.DenyNetFetch is set.
// Everything after that is fatal.
package acquire
