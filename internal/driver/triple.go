package driver

import "runtime"

// DetectTargetTriple maps the host OS and architecture to an LLVM target
// triple. Unrecognized hosts fall back to x86_64 linux.
func DetectTargetTriple() string {
	switch runtime.GOOS {
	case "windows":
		switch runtime.GOARCH {
		case "amd64":
			return "x86_64-pc-windows-msvc"
		case "arm64":
			return "aarch64-pc-windows-msvc"
		default:
			return "i686-pc-windows-msvc"
		}
	case "darwin":
		switch runtime.GOARCH {
		case "amd64":
			return "x86_64-apple-macosx10.7.0"
		case "arm64":
			return "aarch64-apple-darwin"
		default:
			return "x86_64-apple-macosx10.7.0"
		}
	case "linux":
		switch runtime.GOARCH {
		case "amd64":
			return "x86_64-unknown-linux-gnu"
		case "arm64":
			return "aarch64-unknown-linux-gnu"
		default:
			return "i686-unknown-linux-gnu"
		}
	default:
		return "x86_64-unknown-linux-gnu"
	}
}
