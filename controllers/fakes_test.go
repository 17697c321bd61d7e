package controllers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection satisfies Collection with per-method hooks, the same pattern
// as the stub UserLoader in the middleware tests. Unset hooks answer the
// empty-collection result, and call counters let tests assert a mutation was
// never issued.
type fakeCollection struct {
	findOneFn    func(filter interface{}) *mongo.SingleResult
	findFn       func(filter interface{}) (*mongo.Cursor, error)
	aggregateFn  func(pipeline interface{}) (*mongo.Cursor, error)
	insertOneFn  func(document interface{}) (*mongo.InsertOneResult, error)
	replaceOneFn func(filter, replacement interface{}) (*mongo.UpdateResult, error)
	deleteOneFn  func(filter interface{}) (*mongo.DeleteResult, error)

	findOneCalls int
	insertCalls  int
	replaceCalls int
	deleteCalls  int
}

func (f *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	f.findOneCalls++
	if f.findOneFn == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return f.findOneFn(filter)
}

func (f *fakeCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if f.findFn == nil {
		return mongo.NewCursorFromDocuments([]interface{}{}, nil, nil)
	}
	return f.findFn(filter)
}

func (f *fakeCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	if f.aggregateFn == nil {
		return mongo.NewCursorFromDocuments([]interface{}{}, nil, nil)
	}
	return f.aggregateFn(pipeline)
}

func (f *fakeCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.insertCalls++
	if f.insertOneFn == nil {
		return &mongo.InsertOneResult{}, nil
	}
	return f.insertOneFn(document)
}

func (f *fakeCollection) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	f.replaceCalls++
	if f.replaceOneFn == nil {
		return &mongo.UpdateResult{}, nil
	}
	return f.replaceOneFn(filter, replacement)
}

func (f *fakeCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.deleteCalls++
	if f.deleteOneFn == nil {
		return &mongo.DeleteResult{}, nil
	}
	return f.deleteOneFn(filter)
}

// foundResult wraps a document in a SingleResult the way a matching FindOne
// would return it.
func foundResult(doc interface{}) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

// noDocsResult is FindOne with no matching document.
func noDocsResult() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

// duplicateKeyErr mimics the server-side unique index violation.
func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}
