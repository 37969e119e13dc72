package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding participants.
const CollectionName = "users"

type userDocument struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	Name           string              `bson:"name"`
	SecretKey      *string             `bson:"secretKey"`
	AssignedTo     *primitive.ObjectID `bson:"assignedTo"`
	SeenAssignment bool                `bson:"seenAssignment"`
	Wishlist       []string            `bson:"wishlist"`
	Questionnaire  bson.M              `bson:"questionnaire,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt"`
}

func (d *userDocument) toModel() *models.User {
	u := &models.User{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		SecretKeyHash:  d.SecretKey,
		SeenAssignment: d.SeenAssignment,
		Wishlist:       d.Wishlist,
		Questionnaire:  map[string]any{},
		CreatedAt:      d.CreatedAt.UTC(),
	}
	if d.AssignedTo != nil && !d.AssignedTo.IsZero() {
		id := d.AssignedTo.Hex()
		u.AssignedTo = &id
	}
	if u.Wishlist == nil {
		u.Wishlist = []string{}
	}
	for k, v := range d.Questionnaire {
		u.Questionnaire[k] = plain(v)
	}
	return u
}

// plain turns nested BSON containers into maps and slices so questionnaire
// answers encode as ordinary JSON.
func plain(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case primitive.A:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = plain(e)
		}
		return s
	default:
		return v
	}
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	doc := userDocument{
		Name:          user.Name,
		SecretKey:     user.SecretKeyHash,
		Wishlist:      user.Wishlist,
		Questionnaire: user.Questionnaire,
		CreatedAt:     time.Now().UTC(),
	}
	if doc.Wishlist == nil {
		doc.Wishlist = []string{}
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MongoRepository) GetByAssignee(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, bson.M{"assignedTo": oid})
}

func (r *MongoRepository) List(ctx context.Context) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	var result []*models.User
	for cur.Next(ctx) {
		var doc userDocument
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

func (r *MongoRepository) SetSecretKeyHash(ctx context.Context, id string, hash string) error {
	return r.updateOne(ctx, id, bson.M{"secretKey": hash})
}

func (r *MongoRepository) SetAssignment(ctx context.Context, giverID, receiverID string) error {
	receiver, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return common.ErrorNotFound
	}
	return r.updateOne(ctx, giverID, bson.M{"assignedTo": receiver})
}

func (r *MongoRepository) MarkAssignmentSeen(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{"seenAssignment": true})
}

func (r *MongoRepository) UpdateWishlist(ctx context.Context, id string, wishlist []string) error {
	if wishlist == nil {
		wishlist = []string{}
	}
	return r.updateOne(ctx, id, bson.M{"wishlist": wishlist})
}

func (r *MongoRepository) UpdateQuestionnaire(ctx context.Context, id string, questionnaire map[string]any) error {
	if questionnaire == nil {
		questionnaire = map[string]any{}
	}
	return r.updateOne(ctx, id, bson.M{"questionnaire": questionnaire})
}

func (r *MongoRepository) ClearAssignments(ctx context.Context) error {
	return r.updateAll(ctx, bson.M{"assignedTo": nil})
}

func (r *MongoRepository) ResetSeenAssignments(ctx context.Context) error {
	return r.updateAll(ctx, bson.M{"seenAssignment": false})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) updateOne(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) updateAll(ctx context.Context, set bson.M) error {
	if _, err := r.coll.UpdateMany(ctx, bson.M{}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
