package syntax

import (
	"fmt"
	"strings"

	"msci/pkg/utils/coerce"
)

// GameVersion is a bit set of game releases a command is available in.
type GameVersion uint32

const (
	VersionThreat GameVersion = 1 << iota
	VersionReunion
	VersionTerranConflict
	VersionAlbionPrelude

	VersionNone GameVersion = 0
	VersionAll              = VersionThreat | VersionReunion | VersionTerranConflict | VersionAlbionPrelude
)

var versionNames = []struct {
	name    string
	version GameVersion
}{
	{"X2", VersionThreat},
	{"X3", VersionReunion},
	{"TC", VersionTerranConflict},
	{"AP", VersionAlbionPrelude},
}

// Includes reports whether every version in other is also in v.
func (v GameVersion) Includes(other GameVersion) bool {
	return other != 0 && v&other == other
}

func (v GameVersion) String() string {
	if v == VersionAll {
		return "ALL"
	}
	var parts []string
	for _, n := range versionNames {
		if v&n.version != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

func (v GameVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ParseVersion accepts "|"-separated release names (X2, X3, TC, AP, ALL), their
// long forms, or a decimal bit mask.
func ParseVersion(s string) (GameVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VersionNone, fmt.Errorf("empty game version")
	}
	if s[0] >= '0' && s[0] <= '9' {
		n, err := coerce.ToInt(s)
		if err != nil {
			return VersionNone, fmt.Errorf("invalid game version mask %q: %w", s, err)
		}
		v := GameVersion(n)
		if v == 0 || v&^VersionAll != 0 {
			return VersionNone, fmt.Errorf("game version mask %q out of range", s)
		}
		return v, nil
	}

	var v GameVersion
	for _, part := range strings.Split(s, "|") {
		switch strings.ToUpper(strings.TrimSpace(part)) {
		case "X2", "THREAT", "X2THREAT":
			v |= VersionThreat
		case "X3", "X3R", "REUNION", "X3REUNION":
			v |= VersionReunion
		case "TC", "X3TC", "TERRANCONFLICT":
			v |= VersionTerranConflict
		case "AP", "X3AP", "ALBIONPRELUDE":
			v |= VersionAlbionPrelude
		case "ALL":
			v |= VersionAll
		default:
			return VersionNone, fmt.Errorf("unknown game version %q", part)
		}
	}
	return v, nil
}
