package models

import "strings"

// Location is the parsed form of a location string. The raw forms observed:
//
//	""                       – unknown
//	"offline"                – not in any world
//	"private"                – in a world hidden from the viewer
//	"traveling"              – between instances (destination in a sibling field)
//	"wrld_x"                 – world without instance
//	"wrld_x:inst~tag(arg)~…" – world plus instance with access tags
type Location struct {
	Raw        string
	WorldID    string
	InstanceID string

	// InstanceName is the instance id with access tags stripped.
	InstanceName string

	// AccessType is "public", "friends+", "friends", "invite+", "invite" or
	// "group", decoded from the instance's access tags.
	AccessType string

	IsOffline   bool
	IsPrivate   bool
	IsTraveling bool
}

// ParseLocation decodes a raw location string. It never fails; unknown shapes
// come back with only Raw set.
func ParseLocation(raw string) Location {
	loc := Location{Raw: raw, AccessType: "public"}

	switch raw {
	case "", "offline":
		loc.IsOffline = true
		loc.AccessType = ""
		return loc
	case "private":
		loc.IsPrivate = true
		loc.AccessType = ""
		return loc
	case "traveling":
		loc.IsTraveling = true
		loc.AccessType = ""
		return loc
	}

	worldID, instance, ok := strings.Cut(raw, ":")
	loc.WorldID = worldID
	if !ok {
		return loc
	}
	loc.InstanceID = instance

	parts := strings.Split(instance, "~")
	loc.InstanceName = parts[0]
	for _, part := range parts[1:] {
		tag, _, _ := strings.Cut(part, "(")
		switch tag {
		case "private":
			loc.AccessType = "invite"
		case "canRequestInvite":
			// Appears alongside "private"; upgrades invite to invite+.
			loc.AccessType = "invite+"
		case "friends":
			loc.AccessType = "friends"
		case "hidden":
			loc.AccessType = "friends+"
		case "group":
			loc.AccessType = "group"
		}
	}
	return loc
}

// ResolveLocation picks a user's current location under the live-signal
// precedence rule: a live presence signal always outranks the REST snapshot,
// because REST data lags live state. With no live signal, a traveling REST
// location resolves to its destination.
func ResolveLocation(live, rest, travelingTo string) string {
	if live != "" {
		return live
	}
	if rest == "traveling" && travelingTo != "" {
		return travelingTo
	}
	return rest
}
