package acquire

import (
	"errors"
	"fmt"
)

// ErrMissingOutDir is returned when the host build did not provide OUT_DIR.
var ErrMissingOutDir = errors.New("OUT_DIR is not set; the host build system must provide it")

// ErrDiscovery marks every recoverable system-discovery failure.
// Test with errors.Is(err, ErrDiscovery).
var ErrDiscovery = errors.New("no usable system capnp")

// ErrDiscoveryNotFound means no capnp was found on PATH.
var ErrDiscoveryNotFound = fmt.Errorf("%w: could not find a system capnp binary", ErrDiscovery)

// ProbeErrorKind classifies a failed version probe.
type ProbeErrorKind int

const (
	ProbeIO ProbeErrorKind = iota + 1
	ProbeExit
	ProbeDecode
)

func (k ProbeErrorKind) String() string {
	switch k {
	case ProbeIO:
		return "io"
	case ProbeExit:
		return "exit"
	case ProbeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// ProbeError reports that `<exe> --version` could not be run or read.
type ProbeError struct {
	Kind ProbeErrorKind
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	switch e.Kind {
	case ProbeIO:
		return fmt.Sprintf("could not run %s --version: %v", e.Path, e.Err)
	case ProbeExit:
		return fmt.Sprintf("%s --version exited unsuccessfully: %v", e.Path, e.Err)
	case ProbeDecode:
		return fmt.Sprintf("%s --version printed invalid UTF-8", e.Path)
	default:
		return fmt.Sprintf("probing %s: %v", e.Path, e.Err)
	}
}

func (e *ProbeError) Unwrap() error { return e.Err }

// DiscoveryUnreadableError means a capnp was found but its version could not be obtained.
type DiscoveryUnreadableError struct {
	Path string
	Err  error
}

func (e *DiscoveryUnreadableError) Error() string {
	return fmt.Sprintf("could not obtain version of %s, system capnp may be inaccessible: %v", e.Path, e.Err)
}

func (e *DiscoveryUnreadableError) Unwrap() error { return e.Err }

func (e *DiscoveryUnreadableError) Is(target error) bool { return target == ErrDiscovery }

// VersionMismatchError means the system capnp reports a different version banner.
type VersionMismatchError struct {
	Path     string
	Observed string // trimmed banner
	Required string // bare version, e.g. 0.11.0
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("version of system capnp (%s) does not meet version requirement %s", e.Observed, e.Required)
}

func (e *VersionMismatchError) Is(target error) bool { return target == ErrDiscovery }

// DenyNetFetchError aborts the build when discovery failed and building is forbidden.
type DenyNetFetchError struct {
	Cause error
}

func (e *DenyNetFetchError) Error() string {
	return fmt.Sprintf("couldn't find a local capnp: %v; refusing to build (deny-net-fetch is enabled)", e.Cause)
}

func (e *DenyNetFetchError) Unwrap() error { return e.Cause }

// BuilderError means a native toolchain step failed.
type BuilderError struct {
	Step string
	Err  error
}

func (e *BuilderError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *BuilderError) Unwrap() error { return e.Err }

// InstallPrefixMismatchError means the toolchain installed somewhere other than OUT_DIR.
// This is a programming error, not a user error.
type InstallPrefixMismatchError struct {
	Want string
	Got  string
}

func (e *InstallPrefixMismatchError) Error() string {
	return fmt.Sprintf("install prefix mismatch: toolchain installed into %q, expected OUT_DIR %q", e.Got, e.Want)
}

// UnsupportedHostOSError means the host is not linux, macOS or windows.
type UnsupportedHostOSError struct {
	OS string
}

func (e *UnsupportedHostOSError) Error() string {
	return fmt.Sprintf("capnp-fetch does not support your operating system: %s", e.OS)
}
