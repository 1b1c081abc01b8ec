package version

import (
	"fmt"
	"runtime"
)

// Version information
var (
	// Version in string format - set at build time with -ldflags
	Version = "0.1.0"
	// GitCommit is the git commit that was compiled - set at build time
	GitCommit = ""
	// BuildDate is the date of the build - set at build time
	BuildDate = ""
	// GoVersion is the version of go used to compile
	GoVersion = runtime.Version()
	// Platform is the operating system and architecture combination
	Platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	// AppName is the name of the binary
	AppName = "rawhttpd"
	// Description of the application
	Description = "A minimal HTTP/1.1 server on raw TCP sockets"
)

// GetVersionInfo returns a formatted version string with additional build information
func GetVersionInfo() string {
	versionString := fmt.Sprintf("%s version %s", AppName, Version)

	if GitCommit != "" {
		versionString += fmt.Sprintf("\nGit commit: %s", GitCommit)
	}
	if BuildDate != "" {
		versionString += fmt.Sprintf("\nBuild date: %s", BuildDate)
	}

	versionString += fmt.Sprintf("\nGo version: %s", GoVersion)
	versionString += fmt.Sprintf("\nPlatform: %s", Platform)

	return versionString
}
