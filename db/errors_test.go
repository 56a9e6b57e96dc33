package db

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("other")))

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	assert.True(t, IsDuplicateKey(dup))
	assert.True(t, IsDuplicateKey(errors.Wrap(dup, "inserting")))
	assert.True(t, IsDuplicateKey(errors.New("E11000 duplicate key error collection")))
}

func TestResultsNotFound(t *testing.T) {
	assert.True(t, ResultsNotFound(mongo.ErrNoDocuments))
	assert.True(t, ResultsNotFound(errors.WithStack(mongo.ErrNoDocuments)))
	assert.False(t, ResultsNotFound(errors.New("other")))
	assert.False(t, ResultsNotFound(nil))
}

func TestIsDocumentValidation(t *testing.T) {
	assert.False(t, IsDocumentValidation(nil))

	invalid := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: documentValidationErrCode, Message: "Document failed validation"}}}
	assert.True(t, IsDocumentValidation(invalid))
	assert.True(t, IsDocumentValidation(errors.Wrap(invalid, "inserting")))
	assert.False(t, IsDocumentValidation(errors.New("other")))
}

func TestUnacknowledged(t *testing.T) {
	assert.True(t, isUnacknowledged(mongo.ErrUnacknowledgedWrite))
	assert.True(t, isUnacknowledged(errors.Wrap(mongo.ErrUnacknowledgedWrite, "writing")))
	assert.False(t, isUnacknowledged(errors.New("other")))

	res := Unacknowledged()
	assert.False(t, res.Acknowledged)
	assert.Empty(t, res.InsertedIDs)
}
