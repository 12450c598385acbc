package docstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"joblens-engine/internal/dataset"
)

// Target names the collection whose contents get replaced wholesale.
type Target struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// StoreUnavailableError covers every way the export can fail: connect,
// ping, clear or insert. The operation is not retried and makes no
// transactional promise — a failure after the clear leaves the collection
// empty, which is accepted and documented behavior.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("document store unavailable (%s): %v", e.Op, e.Err)
}
func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// ReplaceAll replaces the target collection with the full cleaned record
// set (never the filtered view), one document per record. Returns the
// number of documents inserted.
func ReplaceAll(ctx context.Context, t Target, records []dataset.Record) (int, error) {
	opts := options.Client().
		ApplyURI(t.URI).
		SetServerSelectionTimeout(t.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return 0, &StoreUnavailableError{Op: "connect", Err: err}
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), t.Timeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return 0, &StoreUnavailableError{Op: "ping", Err: err}
	}

	coll := client.Database(t.Database).Collection(t.Collection)

	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return 0, &StoreUnavailableError{Op: "clear", Err: err}
	}

	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, documentFor(r))
	}
	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, &StoreUnavailableError{Op: "insert", Err: err}
	}
	return len(res.InsertedIDs), nil
}

// documentFor serializes a cleaned record the way the cleaned frame stored
// it: source field names verbatim, with the salary and skills columns
// overlaid by their cleaned values and the derived attributes alongside.
func documentFor(r dataset.Record) bson.M {
	doc := bson.M{}
	for k, v := range r.Raw {
		switch {
		case dataset.EqualCol(k, dataset.ColSalary):
			doc[k] = floatOrNil(r.SalaryUSD)
		case dataset.EqualCol(k, dataset.ColSkills):
			doc[k] = r.Skills
		default:
			doc[k] = v
		}
	}
	if r.Country != nil {
		doc["Country"] = *r.Country
	}
	if r.City != nil && !hasCol(doc, dataset.ColCity) {
		doc["City"] = *r.City
	}
	if r.Seniority != nil {
		doc["Seniority"] = *r.Seniority
	}
	if r.JobLevel != nil {
		doc["Job Level"] = *r.JobLevel
	}
	return doc
}

func floatOrNil(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func hasCol(doc bson.M, name string) bool {
	for k := range doc {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return true
		}
	}
	return false
}
