package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core/academics"
)

type classRepository struct {
	db *DB
}

var _ academics.ClassRepository = (*classRepository)(nil)

func NewClassRepository(db *DB) academics.ClassRepository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(_ context.Context, cls academics.Class) (academics.Class, error) {
	repo.db.classes.mutex.Lock()
	defer repo.db.classes.mutex.Unlock()

	if cls.Students == nil {
		cls.Students = []primitive.ObjectID{}
	}
	cls.ID = primitive.NewObjectID()
	repo.db.classes.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) QueryAllClasses(ctx context.Context) ([]academics.ClassDetail, error) {
	repo.db.classes.mutex.RLock()
	classes := make([]academics.Class, 0, len(repo.db.classes.table))
	for _, cls := range repo.db.classes.table {
		classes = append(classes, *cls)
	}
	repo.db.classes.mutex.RUnlock()

	return repo.populate(classes...), nil
}

func (repo *classRepository) GetClassByID(_ context.Context, id primitive.ObjectID) (academics.Class, error) {
	repo.db.classes.mutex.RLock()
	defer repo.db.classes.mutex.RUnlock()

	if cls, ok := repo.db.classes.table[id]; ok {
		return *cls, nil
	}
	return academics.Class{}, academics.ErrClassNotFound
}

func (repo *classRepository) AddStudentsToSet(_ context.Context, id primitive.ObjectID, studentIDs []primitive.ObjectID) error {
	repo.db.classes.mutex.Lock()
	defer repo.db.classes.mutex.Unlock()

	cls, ok := repo.db.classes.table[id]
	if !ok {
		return academics.ErrClassNotFound
	}
	cls.Students = union(cls.Students, studentIDs)
	return nil
}

func (repo *classRepository) DeleteClass(_ context.Context, id primitive.ObjectID) error {
	repo.db.classes.mutex.Lock()
	defer repo.db.classes.mutex.Unlock()

	if _, ok := repo.db.classes.table[id]; !ok {
		return academics.ErrClassNotFound
	}
	delete(repo.db.classes.table, id)
	return nil
}

func (repo *classRepository) populate(classes ...academics.Class) []academics.ClassDetail {
	repo.db.students.mutex.RLock()
	defer repo.db.students.mutex.RUnlock()
	repo.db.schools.mutex.RLock()
	defer repo.db.schools.mutex.RUnlock()

	details := make([]academics.ClassDetail, 0, len(classes))
	for _, cls := range classes {
		detail := academics.ClassDetail{
			ID:        cls.ID,
			ClassName: cls.ClassName,
			Students:  make([]academics.Student, 0, len(cls.Students)),
		}
		if sch, ok := repo.db.schools.table[cls.School]; ok {
			sch := *sch
			detail.School = &sch
		}
		for _, stdID := range cls.Students {
			if std, ok := repo.db.students.table[stdID]; ok {
				detail.Students = append(detail.Students, *std)
			}
		}
		details = append(details, detail)
	}
	return details
}
