package common

// Version information, set at build time via ldflags:
//
//	-X github.com/finsight-io/finsight/internal/common.version=v1.2.3
var (
	version   = "dev"
	build     = "unknown"
	gitCommit = "unknown"
)

// GetVersion returns the semantic version string
func GetVersion() string {
	return version
}

// GetBuild returns the build identifier
func GetBuild() string {
	return build
}

// GetGitCommit returns the git commit hash
func GetGitCommit() string {
	return gitCommit
}
