package acquire

import (
	"runtime"
)

// HostOS is one of the operating systems capnp-fetch can acquire a compiler for.
type HostOS int

const (
	Linux HostOS = iota + 1
	MacOS
	Windows
)

// ParseHostOS maps a GOOS value onto a supported HostOS.
func ParseHostOS(goos string) (HostOS, error) {
	switch goos {
	case "linux":
		return Linux, nil
	case "darwin":
		return MacOS, nil
	case "windows":
		return Windows, nil
	default:
		return 0, &UnsupportedHostOSError{OS: goos}
	}
}

// CurrentHostOS returns the HostOS this binary runs on.
func CurrentHostOS() (HostOS, error) {
	return ParseHostOS(runtime.GOOS)
}

func (h HostOS) String() string {
	switch h {
	case Linux:
		return "linux"
	case MacOS:
		return "macos"
	case Windows:
		return "windows"
	default:
		return "unknown"
	}
}

// InstalledBinary is the compiler's path relative to the install prefix.
func (h HostOS) InstalledBinary() (string, error) {
	switch h {
	case Windows:
		return "bin/capnp.exe", nil
	case Linux, MacOS:
		return "bin/capnp", nil
	default:
		return "", &UnsupportedHostOSError{OS: h.String()}
	}
}
