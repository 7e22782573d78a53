package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/user/may15-go/apperror"
)

// defaultMongoDatabase is used when neither DB_NAME nor the URI names a database.
const defaultMongoDatabase = "test"

// MongoGateway maps each collection name to a MongoDB collection of the same name.
// The driver client is safe for concurrent use and owns its own connection pool.
type MongoGateway struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoGateway(client *mongo.Client, db *mongo.Database) *MongoGateway {
	return &MongoGateway{client: client, db: db}
}

// OpenMongo creates a client for uri. The driver connects in the background, so an
// unreachable server only surfaces on Ping or on the first operation.
func OpenMongo(ctx context.Context, uri, database string) (*MongoGateway, error) {
	if database == "" {
		cs, err := connstring.ParseAndValidate(uri)
		if err != nil {
			return nil, apperror.NewDatabaseError("invalid mongo connection string", err)
		}
		database = cs.Database
	}
	if database == "" {
		database = defaultMongoDatabase
	}

	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(MongoBSONOptions())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to connect to mongo", err)
	}
	return NewMongoGateway(client, client.Database(database)), nil
}

// MongoBSONOptions makes free-form arrays (favorites, likes, comments) decode their
// sub-documents as maps, the same shape the JSON backends produce.
func MongoBSONOptions() *options.BSONOptions {
	return &options.BSONOptions{DefaultDocumentM: true}
}

func (g *MongoGateway) FindMany(ctx context.Context, collection string, filter Filter, out any) error {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}
	cur, err := g.db.Collection(collection).Find(ctx, query)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (g *MongoGateway) FindByID(ctx context.Context, collection, id string, out any) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	res := g.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid})
	return decodeSingle(res, out)
}

func (g *MongoGateway) Insert(ctx context.Context, collection string, doc Document) error {
	if _, err := g.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (g *MongoGateway) UpdateByID(ctx context.Context, collection, id string, patch any, out any) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	set, err := patchBSON(patch)
	if err != nil {
		return false, err
	}
	set = append(set, bson.E{Key: "updatedAt", Value: Now()})

	// FindOneAndUpdate returns the document as it was before the update by default.
	res := g.db.Collection(collection).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	)
	return decodeSingle(res, out)
}

func (g *MongoGateway) DeleteByID(ctx context.Context, collection, id string, out any) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	res := g.db.Collection(collection).FindOneAndDelete(ctx, bson.M{"_id": oid})
	return decodeSingle(res, out)
}

func (g *MongoGateway) Ping(ctx context.Context) error {
	return g.client.Ping(ctx, readpref.Primary())
}

func (g *MongoGateway) Close(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}

func decodeSingle(res *mongo.SingleResult, out any) (bool, error) {
	if err := res.Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// patchBSON turns a patch struct (omitempty fields) into the body of a $set.
func patchBSON(patch any) (bson.D, error) {
	if patch == nil {
		return bson.D{}, nil
	}
	raw, err := bson.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	var set bson.D
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	return set, nil
}
