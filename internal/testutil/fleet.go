// Package testutil provides shared fixtures for pipeline tests: synthetic
// per-aircraft fleet datasets with known airline profiles.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// FleetGroup describes one block of synthetic airlines sharing a profile:
// every airline in the group has the same fleet size, type mix and entry
// year, so its feature vector is identical across the group.
type FleetGroup struct {
	Prefix   string
	Airlines int
	Fleet    int
	Types    int
	Year     int
}

// FourProfiles yields 24 airlines in four well-separated profiles: small
// modern, small legacy, large modern, large legacy.  The separation makes
// the 4-cluster partition unambiguous.
func FourProfiles() []FleetGroup {
	return []FleetGroup{
		{Prefix: "small-modern", Airlines: 6, Fleet: 6, Types: 1, Year: 2018},
		{Prefix: "small-legacy", Airlines: 6, Fleet: 6, Types: 6, Year: 2001},
		{Prefix: "large-modern", Airlines: 6, Fleet: 30, Types: 3, Year: 2019},
		{Prefix: "large-legacy", Airlines: 6, Fleet: 30, Types: 3, Year: 2003},
	}
}

// WriteFleetCSV renders per-aircraft rows for the given groups to path.
func WriteFleetCSV(t *testing.T, path string, groups []FleetGroup) {
	t.Helper()

	var b strings.Builder
	b.WriteString("airline_name,country,region,aircraft_type,entry_year\n")
	for _, g := range groups {
		for a := 0; a < g.Airlines; a++ {
			name := fmt.Sprintf("%s-%02d", g.Prefix, a)
			for i := 0; i < g.Fleet; i++ {
				fmt.Fprintf(&b, "%s,Freedonia,Testland,T-%d,%d\n",
					name, i%g.Types, g.Year)
			}
		}
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}
