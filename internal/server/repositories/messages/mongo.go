package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding messages.
const CollectionName = "messages"

type messageDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	SenderID   primitive.ObjectID `bson:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId"`
	Message    string             `bson:"message"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d *messageDocument) toModel() *models.Message {
	return &models.Message{
		ID:         d.ID.Hex(),
		SenderID:   d.SenderID.Hex(),
		ReceiverID: d.ReceiverID.Hex(),
		Body:       d.Message,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	sender, err := primitive.ObjectIDFromHex(msg.SenderID)
	if err != nil {
		return nil, common.ErrorNotFound
	}
	receiver, err := primitive.ObjectIDFromHex(msg.ReceiverID)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	doc := messageDocument{
		ID:         primitive.NewObjectID(),
		SenderID:   sender,
		ReceiverID: receiver,
		Message:    msg.Body,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc.toModel(), nil
}

func (r *MongoRepository) Conversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	ida, err := primitive.ObjectIDFromHex(a)
	if err != nil {
		return []*models.Message{}, nil
	}
	idb, err := primitive.ObjectIDFromHex(b)
	if err != nil {
		return []*models.Message{}, nil
	}

	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": ida, "receiverId": idb},
		bson.M{"senderId": idb, "receiverId": ida},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	result := []*models.Message{}
	for cur.Next(ctx) {
		var doc messageDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.DeletedCount, nil
}
