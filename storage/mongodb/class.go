package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/shule/core/academics"
)

type classRepository struct {
	classes  *mongo.Collection
	students *mongo.Collection
	schools  *mongo.Collection
}

var _ academics.ClassRepository = (*classRepository)(nil)

func NewClassRepository(db *mongo.Database) academics.ClassRepository {
	return &classRepository{
		classes:  db.Collection(classCollection),
		students: db.Collection(studentCollection),
		schools:  db.Collection(schoolCollection),
	}
}

func (repo *classRepository) CreateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	if cls.Students == nil {
		cls.Students = []primitive.ObjectID{}
	}
	res, err := repo.classes.InsertOne(ctx, cls)
	if err != nil {
		return academics.Class{}, errors.Wrap(err, "inserting class")
	}
	cls.ID = res.InsertedID.(primitive.ObjectID)
	return cls, nil
}

func (repo *classRepository) QueryAllClasses(ctx context.Context) ([]academics.ClassDetail, error) {
	cur, err := repo.classes.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	var classes []academics.Class
	if err = cur.All(ctx, &classes); err != nil {
		return nil, errors.Wrap(err, "decoding classes")
	}
	return repo.populate(ctx, classes...)
}

func (repo *classRepository) GetClassByID(ctx context.Context, id primitive.ObjectID) (academics.Class, error) {
	var cls academics.Class
	if err := repo.classes.FindOne(ctx, bson.M{"_id": id}).Decode(&cls); err != nil {
		if err == mongo.ErrNoDocuments {
			return academics.Class{}, academics.ErrClassNotFound
		}
		return academics.Class{}, errors.Wrap(err, "finding class by id")
	}
	return cls, nil
}

func (repo *classRepository) AddStudentsToSet(ctx context.Context, id primitive.ObjectID, studentIDs []primitive.ObjectID) error {
	return addToSet(ctx, repo.classes, id, "students", studentIDs)
}

func (repo *classRepository) DeleteClass(ctx context.Context, id primitive.ObjectID) error {
	_, err := repo.classes.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "deleting class")
}

// populate resolves the students sets and school references with batched
// lookups. Dangling references populate as absent.
func (repo *classRepository) populate(ctx context.Context, classes ...academics.Class) ([]academics.ClassDetail, error) {
	studentIDs := make([]primitive.ObjectID, 0, len(classes))
	schoolIDs := make([]primitive.ObjectID, 0, len(classes))
	for _, cls := range classes {
		studentIDs = append(studentIDs, cls.Students...)
		if !cls.School.IsZero() {
			schoolIDs = append(schoolIDs, cls.School)
		}
	}

	var students []academics.Student
	if err := findByIDs(ctx, repo.students, studentIDs, &students); err != nil {
		return nil, err
	}
	var schools []academics.School
	if err := findByIDs(ctx, repo.schools, schoolIDs, &schools); err != nil {
		return nil, err
	}

	studentByID := make(map[primitive.ObjectID]academics.Student, len(students))
	for _, std := range students {
		studentByID[std.ID] = std
	}
	schoolByID := make(map[primitive.ObjectID]academics.School, len(schools))
	for _, sch := range schools {
		schoolByID[sch.ID] = sch
	}

	details := make([]academics.ClassDetail, 0, len(classes))
	for _, cls := range classes {
		detail := academics.ClassDetail{
			ID:        cls.ID,
			ClassName: cls.ClassName,
			Students:  make([]academics.Student, 0, len(cls.Students)),
		}
		if sch, ok := schoolByID[cls.School]; ok {
			sch := sch
			detail.School = &sch
		}
		for _, stdID := range cls.Students {
			if std, ok := studentByID[stdID]; ok {
				detail.Students = append(detail.Students, std)
			}
		}
		details = append(details, detail)
	}
	return details, nil
}
