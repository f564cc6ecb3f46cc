package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core/academics"
)

type schoolRepository struct {
	db *DB
}

var _ academics.SchoolRepository = (*schoolRepository)(nil)

func NewSchoolRepository(db *DB) academics.SchoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) CreateSchool(_ context.Context, sch academics.School) (academics.School, error) {
	repo.db.schools.mutex.Lock()
	defer repo.db.schools.mutex.Unlock()

	if sch.Classes == nil {
		sch.Classes = []primitive.ObjectID{}
	}
	sch.ID = primitive.NewObjectID()
	repo.db.schools.table[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) QueryAllSchools(ctx context.Context) ([]academics.SchoolDetail, error) {
	repo.db.schools.mutex.RLock()
	schools := make([]academics.School, 0, len(repo.db.schools.table))
	for _, sch := range repo.db.schools.table {
		schools = append(schools, *sch)
	}
	repo.db.schools.mutex.RUnlock()

	return repo.populate(schools...), nil
}

func (repo *schoolRepository) GetSchoolByID(_ context.Context, id primitive.ObjectID) (academics.School, error) {
	repo.db.schools.mutex.RLock()
	defer repo.db.schools.mutex.RUnlock()

	if sch, ok := repo.db.schools.table[id]; ok {
		return *sch, nil
	}
	return academics.School{}, academics.ErrSchoolNotFound
}

func (repo *schoolRepository) GetSchoolDetail(ctx context.Context, id primitive.ObjectID) (academics.SchoolDetail, error) {
	sch, err := repo.GetSchoolByID(ctx, id)
	if err != nil {
		return academics.SchoolDetail{}, err
	}
	return repo.populate(sch)[0], nil
}

func (repo *schoolRepository) AddClassesToSet(_ context.Context, id primitive.ObjectID, classIDs []primitive.ObjectID) error {
	repo.db.schools.mutex.Lock()
	defer repo.db.schools.mutex.Unlock()

	sch, ok := repo.db.schools.table[id]
	if !ok {
		return academics.ErrSchoolNotFound
	}
	sch.Classes = union(sch.Classes, classIDs)
	return nil
}

func (repo *schoolRepository) DeleteSchool(_ context.Context, id primitive.ObjectID) error {
	repo.db.schools.mutex.Lock()
	defer repo.db.schools.mutex.Unlock()

	if _, ok := repo.db.schools.table[id]; !ok {
		return academics.ErrSchoolNotFound
	}
	delete(repo.db.schools.table, id)
	return nil
}

func (repo *schoolRepository) populate(schools ...academics.School) []academics.SchoolDetail {
	repo.db.classes.mutex.RLock()
	defer repo.db.classes.mutex.RUnlock()

	details := make([]academics.SchoolDetail, 0, len(schools))
	for _, sch := range schools {
		detail := academics.SchoolDetail{
			ID:         sch.ID,
			SchoolName: sch.SchoolName,
			Classes:    make([]academics.Class, 0, len(sch.Classes)),
		}
		for _, clsID := range sch.Classes {
			if cls, ok := repo.db.classes.table[clsID]; ok {
				detail.Classes = append(detail.Classes, *cls)
			}
		}
		details = append(details, detail)
	}
	return details
}
