package inmemdb

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core/academics"
)

func TestUnion(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	tests := []struct {
		name   string
		set    []primitive.ObjectID
		values []primitive.ObjectID
		want   []primitive.ObjectID
	}{
		{name: "both empty", want: []primitive.ObjectID{}},
		{name: "empty set", values: []primitive.ObjectID{a, b}, want: []primitive.ObjectID{a, b}},
		{name: "disjoint", set: []primitive.ObjectID{a}, values: []primitive.ObjectID{b, c}, want: []primitive.ObjectID{a, b, c}},
		{name: "overlapping", set: []primitive.ObjectID{a, b}, values: []primitive.ObjectID{b, c}, want: []primitive.ObjectID{a, b, c}},
		{name: "duplicate values", set: []primitive.ObjectID{a}, values: []primitive.ObjectID{b, b, b}, want: []primitive.ObjectID{a, b}},
		{name: "subset is a no-op", set: []primitive.ObjectID{a, b, c}, values: []primitive.ObjectID{b}, want: []primitive.ObjectID{a, b, c}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, union(tt.set, tt.values))
		})
	}
}

// Concurrent overlapping merges must converge to the plain set union,
// regardless of interleaving.
func TestSchoolRepository_AddClassesToSet_concurrent(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewSchoolRepository(db)
	ctx := context.Background()

	sch, err := repo.CreateSchool(ctx, academics.School{SchoolName: "Lincoln High"})
	require.NoError(t, err)

	classIDs := make([]primitive.ObjectID, 20)
	for i := range classIDs {
		classIDs[i] = primitive.NewObjectID()
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		// overlapping windows over classIDs
		batch := classIDs[i%11 : i%11+10]
		wg.Add(1)
		go func(batch []primitive.ObjectID) {
			defer wg.Done()
			assert.NoError(t, repo.AddClassesToSet(ctx, sch.ID, batch))
		}(batch)
	}
	wg.Wait()

	got, err := repo.GetSchoolByID(ctx, sch.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, classIDs, got.Classes)
}

func TestClassRepository_AddStudentsToSet_concurrent(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewClassRepository(db)
	ctx := context.Background()

	cls, err := repo.CreateClass(ctx, academics.Class{ClassName: "Grade 7", School: primitive.NewObjectID()})
	require.NoError(t, err)

	s1, s2, s3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.AddStudentsToSet(ctx, cls.ID, []primitive.ObjectID{s1, s2}))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.AddStudentsToSet(ctx, cls.ID, []primitive.ObjectID{s2, s3}))
		}()
	}
	wg.Wait()

	got, err := repo.GetClassByID(ctx, cls.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{s1, s2, s3}, got.Students)
}
