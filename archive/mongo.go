/*------------------------------------------------------------------------------
* mongo.go : document archive backend
*
*          go.mongodb.org/mongo-driver, one document per (run_id, date)
*          holding a fully-evaluated grid solution, following the driver's
*          own documented Connect/InsertOne/FindOne idiom directly.
*-----------------------------------------------------------------------------*/

package archive

import (
	"context"

	"gahm"
	"gahm/owi"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the mongo-driver-backed DocumentStore.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongoStore connects to uri and binds the gahm.grid_solutions collection.
func OpenMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo archive")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongo archive")
	}
	return &MongoStore{
		client:     client,
		collection: client.Database("gahm").Collection("grid_solutions"),
	}, nil
}

// Close disconnects the underlying client.
func (m *MongoStore) Close(ctx context.Context) error { return m.client.Disconnect(ctx) }

type solutionDoc struct {
	RunID string    `bson:"run_id"`
	Date  int64     `bson:"date_epoch"`
	Grid  owi.Grid  `bson:"grid"`
	U     []float64 `bson:"u"`
	V     []float64 `bson:"v"`
	P     []float64 `bson:"p"`
}

// SaveSolution upserts the grid solution for (runID, date).
func (m *MongoStore) SaveSolution(ctx context.Context, runID string, date gahm.Date, grid owi.Grid, solutions []gahm.Solution) error {
	u := make([]float64, len(solutions))
	v := make([]float64, len(solutions))
	p := make([]float64, len(solutions))
	for i, s := range solutions {
		u[i], v[i], p[i] = s.U, s.V, s.P
	}
	doc := solutionDoc{RunID: runID, Date: date.ToSeconds(), Grid: grid, U: u, V: v, P: p}
	filter := bson.M{"run_id": runID, "date_epoch": doc.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return errors.Wrapf(err, "saving solution for run %s at %s", runID, date.String())
	}
	return nil
}

// LoadSolution fetches a previously saved solution document.
func (m *MongoStore) LoadSolution(ctx context.Context, runID string, date gahm.Date) (*GridSolutionDocument, error) {
	filter := bson.M{"run_id": runID, "date_epoch": date.ToSeconds()}
	var doc solutionDoc
	if err := m.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &gahm.UsageError{Msg: "no solution archived for run " + runID + " at " + date.String()}
		}
		return nil, errors.Wrapf(err, "loading solution for run %s at %s", runID, date.String())
	}
	return &GridSolutionDocument{
		RunID: doc.RunID,
		Date:  gahm.DateFromSeconds(doc.Date),
		Grid:  doc.Grid,
		U:     doc.U, V: doc.V, P: doc.P,
	}, nil
}
