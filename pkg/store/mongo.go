package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	kerrors "github.com/matzehuels/kinship/pkg/errors"
	"github.com/matzehuels/kinship/pkg/record"
)

const mongoConnectTimeout = 10 * time.Second

// MongoStore keeps one document per person in a MongoDB collection.
// Documents use the bson tags of [record.Person], with the ID as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to uri and verifies the connection.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = "kinship"
	}
	if collection == "" {
		collection = "people"
	}

	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStore, err, "connect to mongo")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, kerrors.Wrap(kerrors.ErrCodeStore, err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// People returns every document sorted by _id.
func (s *MongoStore) People(ctx context.Context) ([]record.Person, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStore, err, "find people")
	}
	var people []record.Person
	if err := cur.All(ctx, &people); err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStore, err, "decode people")
	}
	return people, nil
}

// Create inserts p, assigning a UUID when p.ID is empty.
func (s *MongoStore) Create(ctx context.Context, p record.Person) (record.Person, error) {
	p = prepareCreate(p)
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return record.Person{}, errDuplicate(p.ID)
		}
		return record.Person{}, kerrors.Wrap(kerrors.ErrCodeStore, err, "insert person %s", p.ID)
	}
	return p, nil
}

// Update replaces the document with _id p.ID.
func (s *MongoStore) Update(ctx context.Context, p record.Person) error {
	if p.ID == "" {
		return errMissingID()
	}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStore, err, "replace person %s", p.ID)
	}
	if res.MatchedCount == 0 {
		return errNotFound(p.ID)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
