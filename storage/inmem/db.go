// Package inmemdb provides mutex-guarded in-memory repositories, used as test
// fixtures and for running the API without a MongoDB deployment.
package inmemdb

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core/academics"
	"github.com/trezcool/shule/core/user"
)

type (
	schoolTable struct {
		mutex sync.RWMutex
		table map[primitive.ObjectID]*academics.School
	}
	classTable struct {
		mutex sync.RWMutex
		table map[primitive.ObjectID]*academics.Class
	}
	studentTable struct {
		mutex sync.RWMutex
		table map[primitive.ObjectID]*academics.Student
	}
	userTable struct {
		mutex sync.RWMutex
		table map[primitive.ObjectID]*user.User
	}

	DB struct {
		schools  *schoolTable
		classes  *classTable
		students *studentTable
		users    *userTable
	}
)

func Open() (*DB, error) {
	db := &DB{
		schools:  &schoolTable{table: make(map[primitive.ObjectID]*academics.School)},
		classes:  &classTable{table: make(map[primitive.ObjectID]*academics.Class)},
		students: &studentTable{table: make(map[primitive.ObjectID]*academics.Student)},
		users:    &userTable{table: make(map[primitive.ObjectID]*user.User)},
	}
	return db, nil
}

// union merges values into set, preserving uniqueness and ignoring order.
func union(set, values []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(set)+len(values))
	merged := make([]primitive.ObjectID, 0, len(set)+len(values))
	for _, id := range set {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	for _, id := range values {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}
