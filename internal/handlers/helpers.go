package handlers

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseObjectID(value string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(strings.TrimSpace(value))
}
