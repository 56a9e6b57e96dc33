package db

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID identifies a document. It is either an identifier assigned by the store
// (an ObjectID) or a key assigned by the application.
type ID struct {
	oid primitive.ObjectID
	key string
}

// NewID returns a fresh store-style identifier.
func NewID() ID {
	return ID{oid: primitive.NewObjectID()}
}

// KeyID wraps an application-assigned key.
func KeyID(key string) ID {
	return ID{key: key}
}

// ObjectIDFrom wraps an existing ObjectID.
func ObjectIDFrom(oid primitive.ObjectID) ID {
	return ID{oid: oid}
}

// ParseObjectID strictly parses a 24 character hex string.
func ParseObjectID(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return ID{}, errors.Wrapf(ErrInvalidID, "parsing '%s'", s)
	}
	return ID{oid: oid}, nil
}

// ParseID returns an ObjectID identifier when s has the shape of one and an
// application key otherwise.
func ParseID(s string) ID {
	if id, err := ParseObjectID(s); err == nil {
		return id
	}
	return ID{key: s}
}

// IsObjectID reports whether the identifier was assigned by the store.
func (id ID) IsObjectID() bool { return !id.oid.IsZero() }

func (id ID) IsZero() bool { return id.oid.IsZero() && id.key == "" }

// Value returns the value stored in the _id field.
func (id ID) Value() any {
	if id.IsObjectID() {
		return id.oid
	}
	return id.key
}

// Filter matches the document with this identifier.
func (id ID) Filter() bson.M {
	return bson.M{"_id": id.Value()}
}

func (id ID) String() string {
	if id.IsObjectID() {
		return id.oid.Hex()
	}
	return id.key
}

// MarshalBSONValue stores an ObjectID as an ObjectID and a key as a string.
func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(id.Value())
}

// UnmarshalBSONValue accepts ObjectIDs, strings and numbers. Numeric
// identifiers written by older fixtures are kept as their decimal form.
func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.ObjectID:
		*id = ID{oid: raw.ObjectID()}
	case bsontype.String:
		*id = ID{key: raw.StringValue()}
	case bsontype.Int32:
		*id = ID{key: strconv.FormatInt(int64(raw.Int32()), 10)}
	case bsontype.Int64:
		*id = ID{key: strconv.FormatInt(raw.Int64(), 10)}
	case bsontype.Double:
		*id = ID{key: strconv.FormatFloat(raw.Double(), 'f', -1, 64)}
	case bsontype.Null, bsontype.Undefined:
		*id = ID{}
	default:
		return errors.Errorf("cannot decode %s as a document id", t)
	}

	return nil
}

// FormatID renders any stored identifier as a string.
func FormatID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return t.Hex()
	case *primitive.ObjectID:
		if t == nil {
			return ""
		}
		return t.Hex()
	case ID:
		return t.String()
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
