package dbmongo

import (
	"context"
	"os"
	"testing"
	"time"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrationConfig(t *testing.T) *config.Config {
	if os.Getenv("MONGO_INTEGRATION") != "1" {
		t.Skip("set MONGO_INTEGRATION=1 to run against a live MongoDB")
	}
	return &config.Config{
		MongoDB: config.MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: os.Getenv("MONGO_USERNAME"),
			Password: os.Getenv("MONGO_PASSWORD"),
			Database: getEnvOrDefault("MONGO_DATABASE", "loyalty_test"),
		},
	}
}

func TestActivityStore_Integration(t *testing.T) {
	cfg := integrationConfig(t)
	ctx := context.Background()

	client, err := NewMongoConnection(cfg)
	require.NoError(t, err, "ensure MongoDB is running")
	defer client.Close(ctx)

	store := NewActivityStore(client)
	require.NoError(t, store.EnsureIndexes(ctx))

	userID := "it-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Add(ctx, common.UserActivity{
			ID:         uuid.NewString(),
			UserID:     userID,
			Type:       "LOGIN",
			Payload:    common.JSONMap{"attempt": i},
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	batch := []common.UserActivity{
		{ID: uuid.NewString(), UserID: userID, Type: "POINTS_EARNED", Payload: common.JSONMap{"points": 10}, OccurredAt: base.Add(-time.Hour)},
		{ID: uuid.NewString(), UserID: userID, Type: "POINTS_EARNED", Payload: common.JSONMap{"points": 20}, OccurredAt: base.Add(-2 * time.Hour)},
	}
	require.NoError(t, store.AddBatch(ctx, batch))

	total, err := store.CountByUser(ctx, userID, common.ActivityFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	earned, err := store.CountByUser(ctx, userID, common.ActivityFilter{Type: "POINTS_EARNED"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), earned)

	items, err := store.FindByUserPaginated(ctx, userID, 1, 2, common.ActivityFilter{Type: "LOGIN"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].OccurredAt.After(items[1].OccurredAt))

	_, err = client.Database.Collection(activityCollection).DeleteMany(ctx, map[string]string{"user_id": userID})
	assert.NoError(t, err)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
