package academics

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core"
)

// School groups Classes. Classes is a set of Class ids: membership is unique
// and order is irrelevant.
type School struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	SchoolName string               `json:"schoolName" bson:"schoolName"`
	Classes    []primitive.ObjectID `json:"classes" bson:"classes"`
}

// Class belongs to a School and groups Students. The School reference is
// assumed present; its existence is not enforced on create.
type Class struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	ClassName string               `json:"className" bson:"className"`
	School    primitive.ObjectID   `json:"school" bson:"school"`
	Students  []primitive.ObjectID `json:"students" bson:"students"`
}

// Student always carries exactly one Class and one School reference.
type Student struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StudentName   string             `json:"studentName" bson:"studentName"`
	StudentClass  primitive.ObjectID `json:"studentClass" bson:"studentClass"`
	StudentSchool primitive.ObjectID `json:"studentSchool" bson:"studentSchool"`
}

// Populated read views. Population resolves reference ids into embedded copies
// of the referenced documents for responses only; the stored references remain
// ids. A dangling reference populates as absent, never as an error.

type SchoolDetail struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	SchoolName string             `json:"schoolName" bson:"schoolName"`
	Classes    []Class            `json:"classes" bson:"classes"`
}

type ClassDetail struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	ClassName string             `json:"className" bson:"className"`
	School    *School            `json:"school" bson:"school"`
	Students  []Student          `json:"students" bson:"students"`
}

type StudentDetail struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	StudentName   string             `json:"studentName" bson:"studentName"`
	StudentClass  *Class             `json:"studentClass" bson:"studentClass"`
	StudentSchool *School            `json:"studentSchool" bson:"studentSchool"`
}

// ParseID validates the shape of a document id taken from a URL path.
// A malformed id is an input error, distinct from "not found".
func ParseID(id string, invalidErr error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(core.CleanString(id))
	if err != nil {
		return primitive.NilObjectID, invalidErr
	}
	return oid, nil
}

// parseIDs converts reference ids supplied in a request body.
func parseIDs(ids []string, field string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(core.CleanString(id))
		if err != nil {
			return nil, core.NewValidationError(fmt.Errorf("%s is invalid", field))
		}
		oids = append(oids, oid)
	}
	return oids, nil
}
