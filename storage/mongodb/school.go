package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/shule/core/academics"
)

type schoolRepository struct {
	schools *mongo.Collection
	classes *mongo.Collection
}

var _ academics.SchoolRepository = (*schoolRepository)(nil)

func NewSchoolRepository(db *mongo.Database) academics.SchoolRepository {
	return &schoolRepository{
		schools: db.Collection(schoolCollection),
		classes: db.Collection(classCollection),
	}
}

func (repo *schoolRepository) CreateSchool(ctx context.Context, sch academics.School) (academics.School, error) {
	if sch.Classes == nil {
		sch.Classes = []primitive.ObjectID{}
	}
	res, err := repo.schools.InsertOne(ctx, sch)
	if err != nil {
		return academics.School{}, errors.Wrap(err, "inserting school")
	}
	sch.ID = res.InsertedID.(primitive.ObjectID)
	return sch, nil
}

func (repo *schoolRepository) QueryAllSchools(ctx context.Context) ([]academics.SchoolDetail, error) {
	cur, err := repo.schools.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	var schools []academics.School
	if err = cur.All(ctx, &schools); err != nil {
		return nil, errors.Wrap(err, "decoding schools")
	}
	return repo.populate(ctx, schools...)
}

func (repo *schoolRepository) GetSchoolByID(ctx context.Context, id primitive.ObjectID) (academics.School, error) {
	var sch academics.School
	if err := repo.schools.FindOne(ctx, bson.M{"_id": id}).Decode(&sch); err != nil {
		if err == mongo.ErrNoDocuments {
			return academics.School{}, academics.ErrSchoolNotFound
		}
		return academics.School{}, errors.Wrap(err, "finding school by id")
	}
	return sch, nil
}

func (repo *schoolRepository) GetSchoolDetail(ctx context.Context, id primitive.ObjectID) (academics.SchoolDetail, error) {
	sch, err := repo.GetSchoolByID(ctx, id)
	if err != nil {
		return academics.SchoolDetail{}, err
	}
	details, err := repo.populate(ctx, sch)
	if err != nil {
		return academics.SchoolDetail{}, err
	}
	return details[0], nil
}

func (repo *schoolRepository) AddClassesToSet(ctx context.Context, id primitive.ObjectID, classIDs []primitive.ObjectID) error {
	return addToSet(ctx, repo.schools, id, "classes", classIDs)
}

func (repo *schoolRepository) DeleteSchool(ctx context.Context, id primitive.ObjectID) error {
	_, err := repo.schools.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "deleting school")
}

// populate resolves the classes sets with a single batched lookup.
// Dangling references are skipped.
func (repo *schoolRepository) populate(ctx context.Context, schools ...academics.School) ([]academics.SchoolDetail, error) {
	ids := make([]primitive.ObjectID, 0, len(schools))
	for _, sch := range schools {
		ids = append(ids, sch.Classes...)
	}
	var classes []academics.Class
	if err := findByIDs(ctx, repo.classes, ids, &classes); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]academics.Class, len(classes))
	for _, cls := range classes {
		byID[cls.ID] = cls
	}

	details := make([]academics.SchoolDetail, 0, len(schools))
	for _, sch := range schools {
		detail := academics.SchoolDetail{
			ID:         sch.ID,
			SchoolName: sch.SchoolName,
			Classes:    make([]academics.Class, 0, len(sch.Classes)),
		}
		for _, clsID := range sch.Classes {
			if cls, ok := byID[clsID]; ok {
				detail.Classes = append(detail.Classes, cls)
			}
		}
		details = append(details, detail)
	}
	return details, nil
}
