package state

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalune/wisp/internal/models"
)

func TestStore_Commit_CreatesDefaultShapedRecord(t *testing.T) {
	s := NewStore(models.NewUser)

	rec, created, err := s.Commit(json.RawMessage(`{"id":"usr_1","displayName":"Alice"}`), nil)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "usr_1", rec.ID)
	assert.Equal(t, "Alice", rec.DisplayName)

	// Default shape: slices are non-nil even though the payload omitted them.
	assert.NotNil(t, rec.Tags)
	assert.NotNil(t, rec.BioLinks)
	assert.NotNil(t, rec.Derived.Languages)
}

func TestStore_Commit_MergePreservesIdentityAndAbsentFields(t *testing.T) {
	s := NewStore(models.NewUser)

	first, created, err := s.Commit(json.RawMessage(`{"id":"usr_1","displayName":"Alice","bio":"hello"}`), nil)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := s.Commit(json.RawMessage(`{"id":"usr_1","displayName":"Alice2"}`), nil)
	require.NoError(t, err)
	assert.False(t, created)

	// Same object, updated in place.
	assert.Same(t, first, second)
	assert.Equal(t, "Alice2", second.DisplayName)
	// Field absent from the second payload survives from the first.
	assert.Equal(t, "hello", second.Bio)
}

func TestStore_Commit_NeverClobbersDerivedFields(t *testing.T) {
	s := NewStore(models.NewUser)

	_, _, err := s.Commit(json.RawMessage(`{"id":"usr_1"}`), nil)
	require.NoError(t, err)

	s.Update("usr_1", func(u *models.User) { u.Derived.Memo = "an old friend" })

	rec, _, err := s.Commit(json.RawMessage(`{"id":"usr_1","displayName":"Alice"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "an old friend", rec.Derived.Memo)
}

func TestStore_Commit_NoDuplicatesForRepeatedIDs(t *testing.T) {
	s := NewStore(models.NewAvatar)

	payload := json.RawMessage(`{"id":"avtr_1","name":"robot"}`)
	_, _, err := s.Commit(payload, nil)
	require.NoError(t, err)
	_, _, err = s.Commit(payload, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
}

func TestStore_Commit_ConcurrentSameID(t *testing.T) {
	s := NewStore(models.NewAvatar)
	payload := json.RawMessage(`{"id":"avtr_1","name":"robot"}`)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.Commit(payload, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Len())
}

func TestStore_Commit_RejectsMalformedPayloads(t *testing.T) {
	s := NewStore(models.NewUser)

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"array", `[1,2,3]`, ErrBadShape},
		{"string", `"oops"`, ErrBadShape},
		{"missing id", `{"displayName":"nobody"}`, ErrMissingID},
		{"broken json", `{"id":`, ErrBadShape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.Commit(json.RawMessage(tc.raw), nil)
			require.ErrorIs(t, err, tc.want)
			assert.Zero(t, s.Len(), "store must stay untouched")
		})
	}
}

func TestStore_Commit_FailedMergeLeavesRecordIntact(t *testing.T) {
	s := NewStore(models.NewUser)

	_, _, err := s.Commit(json.RawMessage(`{"id":"usr_1","displayName":"Alice","tags":["system_trust_basic","language_eng"]}`), nil)
	require.NoError(t, err)

	// Same id, type-mismatched field: the merge must fail without mutating.
	// The tags decode before the decoder reaches the broken field, so this
	// also proves the rejected payload's slice elements never land in the
	// live record's backing arrays.
	_, _, err = s.Commit(json.RawMessage(`{"id":"usr_1","tags":["overwritten","clobbered"],"displayName":12345}`), nil)
	require.Error(t, err)

	rec, ok := s.Get("usr_1")
	require.True(t, ok)
	assert.Equal(t, "Alice", rec.DisplayName)
	assert.Equal(t, []string{"system_trust_basic", "language_eng"}, rec.Tags)
}

func TestStore_Commit_DeriveRunsInsideMerge(t *testing.T) {
	s := NewStore(models.NewUser)

	var sawCreated []bool
	derive := func(u, _ *models.User, created bool) {
		u.Derived.Trust = models.ComputeTrust(u.Tags)
		sawCreated = append(sawCreated, created)
	}

	rec, _, err := s.Commit(json.RawMessage(`{"id":"usr_1","tags":["system_trust_known"]}`), derive)
	require.NoError(t, err)
	assert.Equal(t, models.TrustUser, rec.Derived.Trust.Tier)

	rec, _, err = s.Commit(json.RawMessage(`{"id":"usr_1","tags":["system_trust_veteran"]}`), derive)
	require.NoError(t, err)
	assert.Equal(t, models.TrustTrusted, rec.Derived.Trust.Tier)

	assert.Equal(t, []bool{true, false}, sawCreated)
}

func TestStore_Commit_DeriveSeesPreMergeSnapshot(t *testing.T) {
	s := NewStore(models.NewUser)

	_, _, err := s.Commit(json.RawMessage(`{"id":"usr_1","state":"online"}`), func(u, prev *models.User, created bool) {
		assert.True(t, created)
		assert.Nil(t, prev, "no previous record on creation")
	})
	require.NoError(t, err)

	// Transition detection needs the pre-merge state from the same lock
	// acquisition as the merge, never from a separate read.
	_, _, err = s.Commit(json.RawMessage(`{"id":"usr_1","state":"offline"}`), func(u, prev *models.User, created bool) {
		assert.False(t, created)
		require.NotNil(t, prev)
		assert.Equal(t, "online", prev.State)
		assert.Equal(t, "offline", u.State)
	})
	require.NoError(t, err)
}

func TestStore_DeleteAndClear(t *testing.T) {
	s := NewStore(models.NewWorld)

	_, _, err := s.Commit(json.RawMessage(`{"id":"wrld_1"}`), nil)
	require.NoError(t, err)

	assert.True(t, s.Delete("wrld_1"))
	assert.False(t, s.Delete("wrld_1"))

	_, _, err = s.Commit(json.RawMessage(`{"id":"wrld_2"}`), nil)
	require.NoError(t, err)
	s.Clear()
	assert.Zero(t, s.Len())
}
