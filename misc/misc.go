// Package misc keeps program identity values, set at build time with
// -ldflags "-X uicss/misc.version=... -X uicss/misc.gitHash=...".
package misc

var (
	appName = "uicss"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
