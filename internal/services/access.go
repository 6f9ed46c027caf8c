package services

import (
	"github.com/ikonbethel/alx-files-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decision is the outcome of a read-access check on a file entry. Forbidden
// and NotFound stay distinct here; the HTTP boundary collapses both to a 404
// so callers cannot probe for the existence of private entries.
type Decision int

const (
	DecisionNotFound Decision = iota
	DecisionForbidden
	DecisionAllowed
)

// DecideRead authorizes a read of entry by the caller identified by callerID
// (zero when anonymous). Public entries are readable by anyone; private
// entries only by their owner.
func DecideRead(entry *models.File, callerID primitive.ObjectID) Decision {
	if entry == nil {
		return DecisionNotFound
	}
	if entry.IsPublic {
		return DecisionAllowed
	}
	if callerID.IsZero() || callerID != entry.UserID {
		return DecisionForbidden
	}
	return DecisionAllowed
}
