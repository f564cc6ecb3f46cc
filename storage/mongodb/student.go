package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/shule/core/academics"
)

type studentRepository struct {
	students *mongo.Collection
	classes  *mongo.Collection
	schools  *mongo.Collection
}

var _ academics.StudentRepository = (*studentRepository)(nil)

func NewStudentRepository(db *mongo.Database) academics.StudentRepository {
	return &studentRepository{
		students: db.Collection(studentCollection),
		classes:  db.Collection(classCollection),
		schools:  db.Collection(schoolCollection),
	}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std academics.Student) (academics.Student, error) {
	res, err := repo.students.InsertOne(ctx, std)
	if err != nil {
		return academics.Student{}, errors.Wrap(err, "inserting student")
	}
	std.ID = res.InsertedID.(primitive.ObjectID)
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]academics.StudentDetail, error) {
	cur, err := repo.students.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	var students []academics.Student
	if err = cur.All(ctx, &students); err != nil {
		return nil, errors.Wrap(err, "decoding students")
	}
	return repo.populate(ctx, students...)
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id primitive.ObjectID) (academics.Student, error) {
	var std academics.Student
	if err := repo.students.FindOne(ctx, bson.M{"_id": id}).Decode(&std); err != nil {
		if err == mongo.ErrNoDocuments {
			return academics.Student{}, academics.ErrStudentNotFound
		}
		return academics.Student{}, errors.Wrap(err, "finding student by id")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentDetail(ctx context.Context, id primitive.ObjectID) (academics.StudentDetail, error) {
	std, err := repo.GetStudentByID(ctx, id)
	if err != nil {
		return academics.StudentDetail{}, err
	}
	details, err := repo.populate(ctx, std)
	if err != nil {
		return academics.StudentDetail{}, err
	}
	return details[0], nil
}

func (repo *studentRepository) UpdateStudentRefs(ctx context.Context, id, classID, schoolID primitive.ObjectID) error {
	_, err := repo.students.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"studentClass": classID, "studentSchool": schoolID}},
	)
	return errors.Wrap(err, "updating student refs")
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id primitive.ObjectID) error {
	_, err := repo.students.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "deleting student")
}

// populate resolves the class and school references with batched lookups.
// Dangling references populate as absent.
func (repo *studentRepository) populate(ctx context.Context, students ...academics.Student) ([]academics.StudentDetail, error) {
	classIDs := make([]primitive.ObjectID, 0, len(students))
	schoolIDs := make([]primitive.ObjectID, 0, len(students))
	for _, std := range students {
		if !std.StudentClass.IsZero() {
			classIDs = append(classIDs, std.StudentClass)
		}
		if !std.StudentSchool.IsZero() {
			schoolIDs = append(schoolIDs, std.StudentSchool)
		}
	}

	var classes []academics.Class
	if err := findByIDs(ctx, repo.classes, classIDs, &classes); err != nil {
		return nil, err
	}
	var schools []academics.School
	if err := findByIDs(ctx, repo.schools, schoolIDs, &schools); err != nil {
		return nil, err
	}

	classByID := make(map[primitive.ObjectID]academics.Class, len(classes))
	for _, cls := range classes {
		classByID[cls.ID] = cls
	}
	schoolByID := make(map[primitive.ObjectID]academics.School, len(schools))
	for _, sch := range schools {
		schoolByID[sch.ID] = sch
	}

	details := make([]academics.StudentDetail, 0, len(students))
	for _, std := range students {
		detail := academics.StudentDetail{
			ID:          std.ID,
			StudentName: std.StudentName,
		}
		if cls, ok := classByID[std.StudentClass]; ok {
			cls := cls
			detail.StudentClass = &cls
		}
		if sch, ok := schoolByID[std.StudentSchool]; ok {
			sch := sch
			detail.StudentSchool = &sch
		}
		details = append(details, detail)
	}
	return details, nil
}
