package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/rv-checklist/backend/internal/models"
)

// MongoStore handles checklist template and instance documents in MongoDB.
// Ids are ObjectID hex strings.
type MongoStore struct {
	templates *mongo.Collection
	instances *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		templates: db.Collection("checklist_templates"),
		instances: db.Collection("checklist_instances"),
	}
}

// EnsureIndexes creates the indexes used by listing queries.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.templates.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "type", Value: 1}, {Key: "is_default", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo template index: %w", err)
	}
	_, err = s.instances.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "status", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo instance index: %w", err)
	}
	return nil
}

// ── templates ───────────────────────────────────────────────

func (s *MongoStore) InsertTemplate(ctx context.Context, t *models.ChecklistTemplate) error {
	t.ID = primitive.NewObjectID().Hex()
	if _, err := s.templates.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("mongo insert template: %w", err)
	}
	return nil
}

// templateQuery builds the filter for a template listing.
func templateQuery(f models.TemplateFilter) bson.M {
	q := bson.M{}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.DefaultOnly {
		q["is_default"] = true
	}
	return q
}

func (s *MongoStore) ListTemplates(ctx context.Context, f models.TemplateFilter) ([]models.ChecklistTemplate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.templates.Find(ctx, templateQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find templates: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.ChecklistTemplate{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo decode templates: %w", err)
	}
	return out, nil
}

func (s *MongoStore) GetTemplate(ctx context.Context, id string) (*models.ChecklistTemplate, error) {
	var t models.ChecklistTemplate
	if err := s.templates.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errTemplateNotFound(id)
		}
		return nil, fmt.Errorf("mongo find template: %w", err)
	}
	return &t, nil
}

func (s *MongoStore) ReplaceTemplate(ctx context.Context, t *models.ChecklistTemplate) error {
	res, err := s.templates.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return fmt.Errorf("mongo replace template: %w", err)
	}
	if res.MatchedCount == 0 {
		return errTemplateNotFound(t.ID)
	}
	return nil
}

func (s *MongoStore) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.templates.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete template: %w", err)
	}
	if res.DeletedCount == 0 {
		return errTemplateNotFound(id)
	}
	return nil
}

func (s *MongoStore) CountTemplates(ctx context.Context) (int64, error) {
	n, err := s.templates.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo count templates: %w", err)
	}
	return n, nil
}

// ── instances ───────────────────────────────────────────────

func (s *MongoStore) InsertInstance(ctx context.Context, in *models.ChecklistInstance) error {
	in.ID = primitive.NewObjectID().Hex()
	if _, err := s.instances.InsertOne(ctx, in); err != nil {
		return fmt.Errorf("mongo insert instance: %w", err)
	}
	return nil
}

func (s *MongoStore) GetInstance(ctx context.Context, id string) (*models.ChecklistInstance, error) {
	var in models.ChecklistInstance
	if err := s.instances.FindOne(ctx, bson.M{"_id": id}).Decode(&in); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errInstanceNotFound(id)
		}
		return nil, fmt.Errorf("mongo find instance: %w", err)
	}
	return &in, nil
}

// instanceQuery builds the filter for an owner's instance listing.
func instanceQuery(ownerID string, status models.InstanceStatus) bson.M {
	q := bson.M{"owner_id": ownerID}
	if status != "" {
		q["status"] = status
	}
	return q
}

func (s *MongoStore) ListInstances(ctx context.Context, ownerID string, status models.InstanceStatus) ([]models.ChecklistInstance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.instances.Find(ctx, instanceQuery(ownerID, status), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find instances: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.ChecklistInstance{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo decode instances: %w", err)
	}
	return out, nil
}

// SaveInstance replaces the document only if its stored revision still
// equals in.Revision, then advances in.Revision.
func (s *MongoStore) SaveInstance(ctx context.Context, in *models.ChecklistInstance) error {
	next := *in
	next.Revision = in.Revision + 1

	res, err := s.instances.ReplaceOne(ctx, bson.M{"_id": in.ID, "revision": in.Revision}, &next)
	if err != nil {
		return fmt.Errorf("mongo replace instance: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := s.instances.CountDocuments(ctx, bson.M{"_id": in.ID})
		if err != nil {
			return fmt.Errorf("mongo count instance: %w", err)
		}
		if n == 0 {
			return errInstanceNotFound(in.ID)
		}
		return errRevisionConflict
	}
	in.Revision = next.Revision
	return nil
}

func (s *MongoStore) DeleteInstance(ctx context.Context, id string) error {
	res, err := s.instances.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete instance: %w", err)
	}
	if res.DeletedCount == 0 {
		return errInstanceNotFound(id)
	}
	return nil
}
