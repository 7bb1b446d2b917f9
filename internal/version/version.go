package version

// Set at build time with -ldflags "-X github.com/nrfsmart/nrfdash/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Full returns the version with the short commit hash
func Full() string {
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return Version + " (commit: " + commit + ", built: " + BuildDate + ")"
}
