// Package setups models the on-disk layout of a simulator setups tree.
//
// The tree is Root/Car/Track/setupFile: each car directory contains one
// subdirectory per known track, and each track directory holds opaque
// setup files identified by filename.
package setups

// TrackNames is the fixed, ordered set of track directories every car
// folder is expected to contain. Fan-out follows this order.
var TrackNames = []string{
	"Barcelona",
	"brands_hatch",
	"Hungaroring",
	"Kyalami",
	"Laguna_Seca",
	"misano",
	"monza",
	"mount_panorama",
	"nurburgring",
	"Paul_Ricard",
	"Silverstone",
	"Spa",
	"Suzuka",
	"Zandvoort",
	"Zolder",
}

// reservedRootName is the conventional basename of the setups root
// itself. An event whose car segment resolves to this name happened one
// level too shallow, directly under the root.
const reservedRootName = "Setups"

// IsKnownTrack reports whether name is one of the fixed track names.
func IsKnownTrack(name string) bool {
	for _, t := range TrackNames {
		if t == name {
			return true
		}
	}
	return false
}
