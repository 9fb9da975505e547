package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bugtracker/internal/models"
	"bugtracker/internal/storage"
)

// Store keeps bug records in a MongoDB collection. Consistency is whatever
// the server provides per document; concurrent writers are last-write-wins.
type Store struct {
	client *mongo.Client
	bugs   *mongo.Collection
	logger *slog.Logger
}

// bugDoc is the persisted shape of a bug. The hex of the object id is the
// API-visible identifier.
type bugDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	AssignedTo  string             `bson:"assignedTo,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d bugDoc) toModel() models.Bug {
	return models.Bug{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      models.Status(d.Status),
		Priority:    models.Priority(d.Priority),
		AssignedTo:  d.AssignedTo,
		CreatedAt:   d.CreatedAt,
	}
}

// Open connects to the MongoDB deployment at uri and pings it before use.
func Open(ctx context.Context, uri, database string, logger *slog.Logger) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty mongo uri")
	}
	if database == "" {
		return nil, fmt.Errorf("empty mongo database name")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Store{
		client: client,
		bugs:   client.Database(database).Collection("bugs"),
		logger: logger,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// ListBugs returns every bug in natural (insertion) order.
func (s *Store) ListBugs(ctx context.Context) ([]models.Bug, error) {
	cur, err := s.bugs.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list bugs: %w", err)
	}
	defer cur.Close(ctx)

	var bugs []models.Bug
	for cur.Next(ctx) {
		var d bugDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode bug: %w", err)
		}
		bugs = append(bugs, d.toModel())
	}
	return bugs, cur.Err()
}

// CreateBug inserts a new bug, assigning its object id and creation time.
func (s *Store) CreateBug(ctx context.Context, b models.Bug) (models.Bug, error) {
	if !b.Status.Valid() {
		b.Status = models.DefaultStatus
	}
	if !b.Priority.Valid() {
		b.Priority = models.DefaultPriority
	}

	doc := bugDoc{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(b.Title),
		Description: strings.TrimSpace(b.Description),
		Status:      string(b.Status),
		Priority:    string(b.Priority),
		AssignedTo:  strings.TrimSpace(b.AssignedTo),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := s.bugs.InsertOne(ctx, doc); err != nil {
		return models.Bug{}, fmt.Errorf("insert bug: %w", err)
	}
	return doc.toModel(), nil
}

// GetBug fetches a single bug by its hex id.
func (s *Store) GetBug(ctx context.Context, id string) (models.Bug, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Bug{}, storage.ErrNotFound
	}

	var d bugDoc
	err = s.bugs.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Bug{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Bug{}, fmt.Errorf("get bug: %w", err)
	}
	return d.toModel(), nil
}

// UpdateBug applies the supplied subset of fields with a $set and returns the
// post-update record.
func (s *Store) UpdateBug(ctx context.Context, id string, changes storage.BugChanges) (models.Bug, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Bug{}, storage.ErrNotFound
	}

	set := bson.M{}
	if v := changes.Title; v != nil && strings.TrimSpace(*v) != "" {
		set["title"] = strings.TrimSpace(*v)
	}
	if v := changes.Description; v != nil && strings.TrimSpace(*v) != "" {
		set["description"] = strings.TrimSpace(*v)
	}
	if v := changes.Status; v != nil && v.Valid() {
		set["status"] = string(*v)
	}
	if v := changes.Priority; v != nil && v.Valid() {
		set["priority"] = string(*v)
	}
	if v := changes.AssignedTo; v != nil {
		set["assignedTo"] = strings.TrimSpace(*v)
	}

	if len(set) == 0 {
		return s.GetBug(ctx, id)
	}

	var d bugDoc
	err = s.bugs.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Bug{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Bug{}, fmt.Errorf("update bug: %w", err)
	}
	return d.toModel(), nil
}

// DeleteBug removes a bug by its hex id.
func (s *Store) DeleteBug(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := s.bugs.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete bug: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
