package main

// Build-time variables set via ldflags during releases
var (
	version = "latest"  // version is the application version shown by --version and the version command
	commit  = "unknown" // commit is the git commit hash shown by the version command
	date    = "unknown" // date is the build date shown by the version command
)
