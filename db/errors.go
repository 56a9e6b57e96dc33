package db

import (
	"strings"

	"github.com/mongodb/anser/db"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	namespaceExistsErrCode    = 48
	documentValidationErrCode = 121
)

// ErrInvalidID is returned when a string cannot be parsed as a store-assigned
// identifier.
var ErrInvalidID = errors.New("invalid document id")

func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	if mongo.IsDuplicateKeyError(errors.Cause(err)) {
		return true
	}

	return strings.Contains(errors.Cause(err).Error(), "duplicate key")
}

// ResultsNotFound returns true if the error was caused by a query that
// matched no documents.
func ResultsNotFound(err error) bool {
	return db.ResultsNotFound(err)
}

// IsDocumentValidation returns true if the server rejected a write because
// the document failed the collection's schema validator.
func IsDocumentValidation(err error) bool {
	if err == nil {
		return false
	}

	return hasErrorCode(errors.Cause(err), documentValidationErrCode) ||
		strings.Contains(errors.Cause(err).Error(), "Document failed validation")
}

func IsInvalidID(err error) bool {
	return errors.Cause(err) == ErrInvalidID
}

func hasErrorCode(err error, code int) bool {
	switch e := err.(type) {
	case mongo.CommandError:
		return e.HasErrorCode(code)
	case mongo.WriteException:
		return e.HasErrorCode(code)
	case mongo.BulkWriteException:
		return e.HasErrorCode(code)
	default:
		return false
	}
}
