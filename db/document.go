package db

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a query result with every ObjectID replaced by its hex string,
// ready to be encoded as JSON.
type Document map[string]any

// ID returns the document's identifier as a string.
func (d Document) ID() string {
	return FormatID(d["_id"])
}

// Normalize converts ObjectIDs to hex strings, descending into embedded
// documents and arrays.
func Normalize(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case bson.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case Document:
		return normalizeMap(t)
	case bson.D:
		out := make(Document, len(t))
		for _, e := range t {
			out[e.Key] = Normalize(e.Value)
		}
		return out
	case bson.A:
		return normalizeSlice(t)
	case []any:
		return normalizeSlice(t)
	default:
		return v
	}
}

// NormalizeDocument normalizes a single raw result.
func NormalizeDocument(doc bson.M) Document {
	if doc == nil {
		return nil
	}
	return normalizeMap(doc)
}

func normalizeMap(m map[string]any) Document {
	out := make(Document, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = Normalize(v)
	}
	return out
}
