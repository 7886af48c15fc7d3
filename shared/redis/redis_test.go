package redisclient

import (
	"context"
	"testing"
	"time"

	sharedmodels "flightlink/shared/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = Client.Close() })
	return mr
}

func TestSaveAndLoadResult(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	result := sharedmodels.SearchResult{
		SearchID: "abc",
		Request: sharedmodels.SearchRequest{
			From:       "Delhi",
			To:         "Mumbai",
			Date:       time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			Passengers: 2,
			Class:      sharedmodels.Business,
			Sites:      []sharedmodels.Site{sharedmodels.MakeMyTrip},
		},
		Links: []sharedmodels.LinkResult{
			{Site: sharedmodels.MakeMyTrip, URL: "https://www.makemytrip.com/flight/search"},
		},
		CreatedAt: time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, SaveResult(ctx, result, 30*time.Minute))
	assert.Equal(t, 30*time.Minute, mr.TTL("flight:search:abc"))

	loaded, err := LoadResult(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, result, loaded)

	mr.FastForward(31 * time.Minute)
	_, err = LoadResult(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadResult_Corrupt(t *testing.T) {
	mr := setupRedis(t)
	require.NoError(t, mr.Set("flight:search:bad", "{not json"))

	_, err := LoadResult(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStreamGroupRoundTrip(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, CreateStreamGroup(ctx, "events", "group", "0"))
	require.NoError(t, CreateStreamGroup(ctx, "events", "group", "0"), "existing group is not an error")

	require.NoError(t, AddToStream(ctx, "events", map[string]any{"search_id": "abc", "status": "completed"}))
	assert.Zero(t, mr.TTL("events"), "work streams do not expire")

	streams, err := ReadFromGroup(ctx, "events", "group", "consumer-1", 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, streams, 1)
	require.Len(t, streams[0].Messages, 1)

	msg := streams[0].Messages[0]
	assert.Equal(t, "abc", msg.Values["search_id"])
	assert.Equal(t, "completed", msg.Values["status"])

	require.NoError(t, AcknowledgeMessage(ctx, "events", "group", msg.ID))

	pending, err := Client.XPending(ctx, "events", "group").Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)

	require.NoError(t, DestroyStreamGroup(ctx, "events", "group"))
	_, err = ReadFromGroup(ctx, "events", "group", "consumer-1", 50*time.Millisecond)
	assert.True(t, IsNoGroup(err))
	assert.True(t, mr.Exists("events"))
}

func TestAddToStream_GroupSurvivesIdlePeriod(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, CreateStreamGroup(ctx, "work", "group", "0"))
	require.NoError(t, AddToStream(ctx, "work", map[string]any{"search_id": "first"}))

	mr.FastForward(statusStreamTTL + time.Minute)
	require.True(t, mr.Exists("work"))

	require.NoError(t, AddToStream(ctx, "work", map[string]any{"search_id": "second"}))

	streams, err := ReadFromGroup(ctx, "work", "group", "consumer-1", 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, streams, 1)
	require.Len(t, streams[0].Messages, 2)
	assert.Equal(t, "second", streams[0].Messages[1].Values["search_id"])
}

func TestAddToStatusStream_Expires(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, AddToStatusStream(ctx, "status:abc", map[string]any{"status": "processing"}))
	assert.Equal(t, statusStreamTTL, mr.TTL("status:abc"))

	mr.FastForward(statusStreamTTL + time.Second)
	assert.False(t, mr.Exists("status:abc"))
}

func TestIsNoGroup(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	_, err := ReadFromGroup(ctx, "missing", "group", "consumer-1", 50*time.Millisecond)
	require.Error(t, err)
	assert.True(t, IsNoGroup(err))
	assert.False(t, IsNoMessages(err))
	assert.False(t, IsNoGroup(nil))
}

func TestDeleteResult(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, SaveResult(ctx, sharedmodels.SearchResult{SearchID: "abc"}, time.Minute))
	require.NoError(t, DeleteResult(ctx, "abc"))
	assert.False(t, mr.Exists("flight:search:abc"))

	_, err := LoadResult(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadFromGroup_TimeoutIsNoMessages(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	require.NoError(t, CreateStreamGroup(ctx, "quiet", "group", "0"))

	_, err := ReadFromGroup(ctx, "quiet", "group", "consumer-1", 50*time.Millisecond)
	assert.True(t, IsNoMessages(err))
}
