package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Location
	}{
		{
			name: "empty",
			raw:  "",
			want: Location{Raw: "", IsOffline: true},
		},
		{
			name: "offline",
			raw:  "offline",
			want: Location{Raw: "offline", IsOffline: true},
		},
		{
			name: "private",
			raw:  "private",
			want: Location{Raw: "private", IsPrivate: true},
		},
		{
			name: "traveling",
			raw:  "traveling",
			want: Location{Raw: "traveling", IsTraveling: true},
		},
		{
			name: "world only",
			raw:  "wrld_1",
			want: Location{Raw: "wrld_1", WorldID: "wrld_1", AccessType: "public"},
		},
		{
			name: "public instance",
			raw:  "wrld_1:12345",
			want: Location{
				Raw: "wrld_1:12345", WorldID: "wrld_1",
				InstanceID: "12345", InstanceName: "12345", AccessType: "public",
			},
		},
		{
			name: "invite instance",
			raw:  "wrld_1:77~private(usr_2)~region(eu)",
			want: Location{
				Raw: "wrld_1:77~private(usr_2)~region(eu)", WorldID: "wrld_1",
				InstanceID: "77~private(usr_2)~region(eu)", InstanceName: "77",
				AccessType: "invite",
			},
		},
		{
			name: "invite plus",
			raw:  "wrld_1:77~private(usr_2)~canRequestInvite~region(eu)",
			want: Location{
				Raw: "wrld_1:77~private(usr_2)~canRequestInvite~region(eu)", WorldID: "wrld_1",
				InstanceID: "77~private(usr_2)~canRequestInvite~region(eu)", InstanceName: "77",
				AccessType: "invite+",
			},
		},
		{
			name: "friends plus",
			raw:  "wrld_1:9~hidden(usr_2)",
			want: Location{
				Raw: "wrld_1:9~hidden(usr_2)", WorldID: "wrld_1",
				InstanceID: "9~hidden(usr_2)", InstanceName: "9",
				AccessType: "friends+",
			},
		},
		{
			name: "group instance",
			raw:  "wrld_1:5~group(grp_1)~groupAccessType(public)",
			want: Location{
				Raw: "wrld_1:5~group(grp_1)~groupAccessType(public)", WorldID: "wrld_1",
				InstanceID: "5~group(grp_1)~groupAccessType(public)", InstanceName: "5",
				AccessType: "group",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLocation(tc.raw))
		})
	}
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		name        string
		live        string
		rest        string
		travelingTo string
		want        string
	}{
		{"live wins over rest", "wrld_live:1", "wrld_rest:2", "", "wrld_live:1"},
		{"live wins even over traveling", "wrld_live:1", "traveling", "wrld_dest:3", "wrld_live:1"},
		{"no live falls back to rest", "", "wrld_rest:2", "", "wrld_rest:2"},
		{"traveling resolves to destination", "", "traveling", "wrld_dest:3", "wrld_dest:3"},
		{"traveling without destination stays", "", "traveling", "", "traveling"},
		{"offline", "", "offline", "", "offline"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveLocation(tc.live, tc.rest, tc.travelingTo))
		})
	}
}

func TestPresence_LocationString(t *testing.T) {
	assert.Equal(t, "", Presence{}.LocationString())
	assert.Equal(t, "", Presence{World: "offline"}.LocationString())
	assert.Equal(t, "wrld_1", Presence{World: "wrld_1"}.LocationString())
	assert.Equal(t, "wrld_1:inst_1", Presence{World: "wrld_1", Instance: "inst_1"}.LocationString())
}

func TestBucketFriends(t *testing.T) {
	states := map[string]string{
		"usr_a": "online",
		"usr_b": "active",
		"usr_c": "offline",
		"usr_d": "online",
	}
	lookup := func(id string) (string, bool) {
		s, ok := states[id]
		return s, ok
	}

	got := BucketFriends([]string{"usr_a", "usr_b", "usr_c", "usr_d", "usr_unknown"}, lookup)

	assert.Equal(t, []string{"usr_a", "usr_d"}, got.Online)
	assert.Equal(t, []string{"usr_b"}, got.Active)
	assert.Equal(t, []string{"usr_c", "usr_unknown"}, got.Offline)

	// Deterministic: same input, same partition.
	assert.Equal(t, got, BucketFriends([]string{"usr_a", "usr_b", "usr_c", "usr_d", "usr_unknown"}, lookup))
}
