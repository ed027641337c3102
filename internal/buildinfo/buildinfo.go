// Package buildinfo carries version stamps set with -ldflags "-X".
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the version if stamped, else the commit, else "dev".
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	default:
		return "dev"
	}
}

// Line is the one-line form used in the startup log.
func Line() string {
	return Short() + " (commit " + Commit + ", built " + Date + ")"
}
