package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flightlink/shared/constants"
	"flightlink/shared/export"
	"flightlink/shared/linkformat"
	sharedmodels "flightlink/shared/models"
	redisclient "flightlink/shared/redis"
	"flightlink/shared/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisclient.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisclient.Client.Close() })
	return mr
}

func createTestResult(t *testing.T) sharedmodels.SearchResult {
	req := sharedmodels.SearchRequest{
		From:       "New Delhi",
		To:         "Mumbai",
		Date:       time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Passengers: 1,
		Class:      sharedmodels.Economy,
		Sites:      []sharedmodels.Site{sharedmodels.MakeMyTrip, sharedmodels.Cleartrip},
	}
	links, err := linkformat.GenerateAll(req)
	require.NoError(t, err)
	return sharedmodels.SearchResult{SearchID: "abc-123", Request: req, Links: links}
}

// publishAndRead pushes one event and reads it back through the export group,
// as the service loop does.
func publishAndRead(t *testing.T, values map[string]any) (string, map[string]any) {
	ctx := context.Background()
	require.NoError(t, redisclient.CreateStreamGroup(ctx, constants.FlightLinksGenerated, constants.ExportGroup, "0"))
	require.NoError(t, redisclient.AddToStream(ctx, constants.FlightLinksGenerated, values))

	streams, err := redisclient.ReadFromGroup(ctx, constants.FlightLinksGenerated, constants.ExportGroup, "test-consumer", 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, streams, 1)
	require.Len(t, streams[0].Messages, 1)

	msg := streams[0].Messages[0]
	return msg.ID, msg.Values
}

func statuses(t *testing.T, searchID string) []map[string]any {
	entries, err := redisclient.Client.XRange(context.Background(), utils.ExportStatusStream(searchID), "-", "+").Result()
	require.NoError(t, err)

	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Values)
	}
	return out
}

func assertAcknowledged(t *testing.T) {
	pending, err := redisclient.Client.XPending(context.Background(), constants.FlightLinksGenerated, constants.ExportGroup).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "new-delhi-mumbai-abc-123.xlsx", FileName(createTestResult(t)))
}

func TestHandleMessage_ArchivesWorkbook(t *testing.T) {
	mr := setupRedis(t)
	dir := t.TempDir()
	archiver, err := NewArchiver(filepath.Join(dir, "exports"))
	require.NoError(t, err)

	result := createTestResult(t)
	require.NoError(t, redisclient.SaveResult(context.Background(), result, time.Minute))

	id, values := publishAndRead(t, utils.StructToMap(sharedmodels.LinksGeneratedEvent{
		SearchID:     result.SearchID,
		From:         result.Request.From,
		To:           result.Request.To,
		Date:         "2024-03-05",
		Passengers:   1,
		Class:        "Economy",
		Links:        2,
		TraceContext: "{}",
	}))
	assert.Equal(t, "1", values["passengers"])
	HandleMessage(archiver, constants.ExportGroup, id, values)

	path := filepath.Join(dir, "exports", "new-delhi-mumbai-abc-123.xlsx")
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Cleartrip", rows[2][5])
	assert.Contains(t, rows[2][6], "from=New Delhi")

	got := statuses(t, result.SearchID)
	require.Len(t, got, 2)
	assert.Equal(t, constants.StatusProcessing, got[0]["status"])
	assert.Equal(t, constants.StatusCompleted, got[1]["status"])
	assert.Equal(t, "new-delhi-mumbai-abc-123.xlsx", got[1]["file"])
	assert.Equal(t, "2", got[1]["rows"])
	assert.NotContains(t, got[1], "error")
	assert.Greater(t, mr.TTL(utils.ExportStatusStream(result.SearchID)), time.Duration(0))

	assertAcknowledged(t)
}

func TestHandleMessage_ExpiredSearch(t *testing.T) {
	setupRedis(t)
	dir := t.TempDir()
	archiver, err := NewArchiver(dir)
	require.NoError(t, err)

	id, values := publishAndRead(t, map[string]any{"search_id": "gone"})
	HandleMessage(archiver, constants.ExportGroup, id, values)

	got := statuses(t, "gone")
	require.Len(t, got, 2)
	assert.Equal(t, constants.StatusFailed, got[1]["status"])
	assert.Contains(t, got[1]["error"], "not found")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assertAcknowledged(t)
}

func TestHandleMessage_MissingSearchID(t *testing.T) {
	setupRedis(t)
	archiver, err := NewArchiver(t.TempDir())
	require.NoError(t, err)

	id, values := publishAndRead(t, map[string]any{"from": "Delhi"})
	HandleMessage(archiver, constants.ExportGroup, id, values)

	assertAcknowledged(t)
}

func TestReadBatch(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, redisclient.CreateStreamGroup(ctx, constants.FlightLinksGenerated, constants.ExportGroup, "0"))
	require.NoError(t, redisclient.AddToStream(ctx, constants.FlightLinksGenerated, map[string]any{"search_id": "first"}))

	// an idle half hour must not drop the group
	mr.FastForward(31 * time.Minute)
	require.NoError(t, redisclient.AddToStream(ctx, constants.FlightLinksGenerated, map[string]any{"search_id": "second"}))

	msgs, err := ReadBatch(ctx, constants.ExportGroup, "test-consumer", 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Values["search_id"])
	assert.Equal(t, "second", msgs[1].Values["search_id"])
}

func TestReadBatch_RecreatesMissingGroup(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, redisclient.CreateStreamGroup(ctx, constants.FlightLinksGenerated, constants.ExportGroup, "0"))
	mr.Del(constants.FlightLinksGenerated)
	require.NoError(t, redisclient.AddToStream(ctx, constants.FlightLinksGenerated, map[string]any{"search_id": "after-reset"}))

	msgs, err := ReadBatch(ctx, constants.ExportGroup, "test-consumer", 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "after-reset", msgs[0].Values["search_id"])

	_, err = ReadBatch(ctx, constants.ExportGroup, "test-consumer", 50*time.Millisecond)
	assert.True(t, redisclient.IsNoMessages(err))
}
