package buildinfo

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestShort(t *testing.T) {
	c := qt.New(t)

	defer func(v, cm, d string) { Version, Commit, Date = v, cm, d }(Version, Commit, Date)

	Version, Commit, Date = "dev", "unknown", "unknown"
	c.Assert(Short(), qt.Equals, "dev")

	Commit = "abc1234"
	c.Assert(Short(), qt.Equals, "abc1234")

	Version, Date = "v0.3.0", "2024-06-01"
	c.Assert(Short(), qt.Equals, "v0.3.0")
	c.Assert(Line(), qt.Equals, "v0.3.0 (commit abc1234, built 2024-06-01)")
}
