package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EncodeID returns the canonical 24 character hex form of a store id.
func EncodeID(id primitive.ObjectID) string {
	return id.Hex()
}

// DecodeID parses the textual id form. Any 24 character hex string is a
// valid id, the all-zero one included.
func DecodeID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return id, nil
}
