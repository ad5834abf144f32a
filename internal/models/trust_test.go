package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTrust(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want Trust
	}{
		{
			name: "no tags is a visitor",
			tags: nil,
			want: Trust{Tier: TrustVisitor, ColorClass: "untrusted"},
		},
		{
			name: "basic trust",
			tags: []string{"system_trust_basic"},
			want: Trust{Tier: TrustNew, ColorClass: "basic"},
		},
		{
			name: "highest tier wins",
			tags: []string{"system_trust_basic", "system_trust_veteran", "system_trust_known"},
			want: Trust{Tier: TrustTrusted, ColorClass: "veteran"},
		},
		{
			name: "moderator overrides tier color",
			tags: []string{"system_trust_trusted", "admin_moderator"},
			want: Trust{Tier: TrustKnown, ColorClass: "moderator", IsModerator: true},
		},
		{
			name: "troll overrides tier color",
			tags: []string{"system_trust_known", "system_troll"},
			want: Trust{Tier: TrustUser, ColorClass: "troll", IsTroll: true},
		},
		{
			name: "moderator outranks troll",
			tags: []string{"system_troll", "admin_moderator"},
			want: Trust{ColorClass: "moderator", IsModerator: true, IsTroll: true},
		},
		{
			name: "supporter flag",
			tags: []string{"system_supporter"},
			want: Trust{Tier: TrustVisitor, ColorClass: "untrusted", IsSupporter: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeTrust(tc.tags))
		})
	}
}

func TestComputeTrust_IsDeterministic(t *testing.T) {
	tags := []string{"system_trust_veteran", "system_supporter", "language_eng"}
	first := ComputeTrust(tags)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ComputeTrust(tags))
	}
}

func TestComputeLanguages(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"none", []string{"system_trust_basic"}, []string{}},
		{"known codes", []string{"language_eng", "language_jpn"}, []string{"English", "日本語"}},
		{"unknown code kept", []string{"language_xyz"}, []string{"xyz"}},
		{"mixed with other tags", []string{"system_supporter", "language_kor"}, []string{"한국어"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeLanguages(tc.tags))
		})
	}
}

func TestTrustTier_String(t *testing.T) {
	assert.Equal(t, "visitor", TrustVisitor.String())
	assert.Equal(t, "new user", TrustNew.String())
	assert.Equal(t, "veteran user", TrustVeteran.String())
}
