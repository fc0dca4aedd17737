package dbmongo

import (
	"context"
	"fmt"
	"time"

	"GoLoyalty/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type activityDocument struct {
	ID         string                 `bson:"_id"`
	UserID     string                 `bson:"user_id"`
	Type       string                 `bson:"type"`
	Payload    map[string]interface{} `bson:"payload,omitempty"`
	ActorID    *string                `bson:"actor_id,omitempty"`
	ActorType  *string                `bson:"actor_type,omitempty"`
	OccurredAt time.Time              `bson:"occurred_at"`
}

func toDocument(a common.UserActivity) activityDocument {
	return activityDocument{
		ID:         a.ID,
		UserID:     a.UserID,
		Type:       a.Type,
		Payload:    a.Payload,
		ActorID:    a.ActorID,
		ActorType:  a.ActorType,
		OccurredAt: a.OccurredAt,
	}
}

func (d activityDocument) toDomain() common.UserActivity {
	payload := common.JSONMap{}
	for k, v := range d.Payload {
		payload[k] = v
	}
	return common.UserActivity{
		ID:         d.ID,
		UserID:     d.UserID,
		Type:       d.Type,
		Payload:    payload,
		ActorID:    d.ActorID,
		ActorType:  d.ActorType,
		OccurredAt: d.OccurredAt.UTC(),
	}
}

// ActivityStore keeps user activities in a MongoDB collection.
type ActivityStore struct {
	coll *mongo.Collection
}

func NewActivityStore(mc *MongoClient) *ActivityStore {
	return &ActivityStore{
		coll: mc.Database.Collection(activityCollection),
	}
}

// EnsureIndexes creates the (user_id, occurred_at) index used by listing.
func (s *ActivityStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create activity index: %w", err)
	}
	return nil
}

func (s *ActivityStore) Add(ctx context.Context, activity common.UserActivity) error {
	if _, err := s.coll.InsertOne(ctx, toDocument(activity)); err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}
	return nil
}

// AddBatch inserts all activities inside one session transaction.
func (s *ActivityStore) AddBatch(ctx context.Context, activities []common.UserActivity) error {
	if len(activities) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(activities))
	for _, a := range activities {
		docs = append(docs, toDocument(a))
	}

	// Transactions need a replica set; a plain InsertMany also runs on a standalone server.
	if _, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to save activity batch: %w", err)
	}
	return nil
}

func (s *ActivityStore) FindByUserPaginated(ctx context.Context, userID string, page, limit int, filter common.ActivityFilter) ([]common.UserActivity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset := common.Offset(page, limit); offset > 0 {
		opts.SetSkip(int64(offset))
	}

	cursor, err := s.coll.Find(ctx, buildFilter(userID, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get user activities: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []activityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode user activities: %w", err)
	}

	out := make([]common.UserActivity, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *ActivityStore) CountByUser(ctx context.Context, userID string, filter common.ActivityFilter) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, buildFilter(userID, filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count user activities: %w", err)
	}
	return count, nil
}

func buildFilter(userID string, filter common.ActivityFilter) bson.M {
	query := bson.M{"user_id": userID}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	occurred := bson.M{}
	if filter.From != nil {
		occurred["$gte"] = *filter.From
	}
	if filter.To != nil {
		occurred["$lte"] = *filter.To
	}
	if len(occurred) > 0 {
		query["occurred_at"] = occurred
	}
	return query
}
