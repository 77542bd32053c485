// Package misc keeps program identity, set at build time.
package misc

// Set by the linker: -ldflags "-X stylemig/misc.version=... -X stylemig/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return "stylemig"
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
