package db

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// InsertResult reports the outcome of an insert. Identifiers are rendered as
// strings.
type InsertResult struct {
	Acknowledged bool     `json:"acknowledged" yaml:"acknowledged"`
	InsertedIDs  []string `json:"inserted_ids" yaml:"inserted_ids"`
}

type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged" yaml:"acknowledged"`
	MatchedCount  int64  `json:"matched_count" yaml:"matched_count"`
	ModifiedCount int64  `json:"modified_count" yaml:"modified_count"`
	UpsertedID    string `json:"upserted_id,omitempty" yaml:"upserted_id,omitempty"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged" yaml:"acknowledged"`
	DeletedCount int64 `json:"deleted_count" yaml:"deleted_count"`
}

// Unacknowledged returns an insert result for a write that did not happen.
func Unacknowledged() *InsertResult {
	return &InsertResult{InsertedIDs: []string{}}
}

// isUnacknowledged distinguishes writes issued with w:0 from failures; the
// former are reported as results rather than errors.
func isUnacknowledged(err error) bool {
	return errors.Cause(err) == mongo.ErrUnacknowledgedWrite
}

func newInsertResult(ids ...any) *InsertResult {
	out := &InsertResult{Acknowledged: true, InsertedIDs: make([]string, 0, len(ids))}
	for _, id := range ids {
		out.InsertedIDs = append(out.InsertedIDs, FormatID(id))
	}
	return out
}

func newUpdateResult(res *mongo.UpdateResult) *UpdateResult {
	if res == nil {
		return &UpdateResult{}
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedID:    FormatID(res.UpsertedID),
	}
}

func newDeleteResult(res *mongo.DeleteResult) *DeleteResult {
	if res == nil {
		return &DeleteResult{}
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}
