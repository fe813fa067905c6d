// Package version carries build metadata set through -ldflags, e.g.
//
//	go build -ldflags "-X github.com/harlequix/paritysim/version.Version=v0.2.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
	OsArch    = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)
