package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Link-time values, set with -ldflags "-X github.com/kbukum/kanko/version.Version=...".
// Missing commit, build time and Go version are filled from the binary's
// embedded build info.
var (
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
	GoVersion = ""
)

// Info describes the running binary.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	GitBranch string    `json:"git_branch"`
	BuildTime string    `json:"build_time"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// Get merges the link-time values with the embedded build info. Link-time
// values win.
func Get() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
		BuildDate: parseTime(BuildTime),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.applyBuildInfo(bi)
	}
	return info
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (info *Info) applyBuildInfo(bi *debug.BuildInfo) {
	if info.GoVersion == "" {
		info.GoVersion = bi.GoVersion
	}
	vcs := map[string]string{}
	for _, s := range bi.Settings {
		vcs[s.Key] = s.Value
	}
	info.IsDirty = vcs["vcs.modified"] == "true"
	if rev := vcs["vcs.revision"]; info.GitCommit == "" && rev != "" {
		info.GitCommit = rev[:min(len(rev), 7)]
	}
	if info.BuildTime == "" {
		if t := parseTime(vcs["vcs.time"]); !t.IsZero() {
			info.BuildTime, info.BuildDate = vcs["vcs.time"], t
		}
	}
}

// Short is version and commit, such as "1.2.0-abc1234" or "1.2.0-abc1234-dirty".
func Short() string {
	info := Get()
	if info.GitCommit == "" {
		return info.Version
	}
	s := info.Version + "-" + info.GitCommit
	if info.IsDirty {
		s += "-dirty"
	}
	return s
}

// Full is the line printed by the version command.
func Full() string {
	return Get().String()
}

// String joins version, commit, a branch other than main or master and the
// dirty flag, then appends the build date when known.
func (info *Info) String() string {
	parts := []string{info.Version}
	if info.GitCommit != "" {
		parts = append(parts, info.GitCommit)
	}
	switch info.GitBranch {
	case "", "main", "master":
	default:
		parts = append(parts, info.GitBranch)
	}
	if info.IsDirty {
		parts = append(parts, "dirty")
	}
	s := strings.Join(parts, "-")
	if !info.BuildDate.IsZero() {
		s += fmt.Sprintf(" (built %s)", info.BuildDate.UTC().Format(time.RFC3339))
	}
	return s
}

// UserAgent is the User-Agent sent to the spot API, "name/short-version".
func UserAgent(name string) string {
	return name + "/" + Short()
}
