package services

import (
	"context"
	"testing"

	"collabmatch_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeMirror_LikeUpdatesBothSides(t *testing.T) {
	_, ms := newTestMatchService(t)
	seedPair(t, ms)

	mirror := NewLikeMirrorService(ms.Dynamo)
	mirror.Start()

	mirror.Enqueue("alice", "bob", models.ActionLike)
	mirror.Stop()

	alice, err := ms.Profiles.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, alice.LikesGiven)
	assert.Empty(t, alice.LikesReceived)

	bob, err := ms.Profiles.GetUserProfile(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, bob.LikesReceived)
	assert.Empty(t, bob.LikesGiven)
}

func TestLikeMirror_ReapplyIsIdempotent(t *testing.T) {
	_, ms := newTestMatchService(t)
	seedPair(t, ms)

	mirror := NewLikeMirrorService(ms.Dynamo)
	mirror.Start()

	mirror.Enqueue("alice", "bob", models.ActionLike)
	mirror.Enqueue("alice", "bob", models.ActionLike)
	mirror.Stop()

	alice, err := ms.Profiles.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, alice.LikesGiven)
}

func TestLikeMirror_PassRemovesMembers(t *testing.T) {
	_, ms := newTestMatchService(t)
	seedPair(t, ms)

	mirror := NewLikeMirrorService(ms.Dynamo)
	mirror.Start()

	mirror.Enqueue("alice", "bob", models.ActionLike)
	mirror.Enqueue("alice", "carol", models.ActionLike)
	mirror.Enqueue("alice", "bob", models.ActionPass)
	mirror.Stop()

	alice, err := ms.Profiles.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, alice.LikesGiven)

	bob, err := ms.Profiles.GetUserProfile(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, bob.LikesReceived)
}

func TestLikeMirror_WiredThroughProcessLike(t *testing.T) {
	_, ms := newTestMatchService(t)
	seedPair(t, ms)
	ms.Mirror = NewLikeMirrorService(ms.Dynamo)
	ms.Mirror.Start()

	_, _, err := ms.ProcessLike(context.Background(), "alice", "bob", "")
	require.NoError(t, err)
	ms.Mirror.Stop()

	alice, err := ms.Profiles.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, alice.LikesGiven)
}
