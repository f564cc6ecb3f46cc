package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core/academics"
)

type studentRepository struct {
	db *DB
}

var _ academics.StudentRepository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) academics.StudentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(_ context.Context, std academics.Student) (academics.Student, error) {
	repo.db.students.mutex.Lock()
	defer repo.db.students.mutex.Unlock()

	std.ID = primitive.NewObjectID()
	repo.db.students.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]academics.StudentDetail, error) {
	repo.db.students.mutex.RLock()
	students := make([]academics.Student, 0, len(repo.db.students.table))
	for _, std := range repo.db.students.table {
		students = append(students, *std)
	}
	repo.db.students.mutex.RUnlock()

	return repo.populate(students...), nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id primitive.ObjectID) (academics.Student, error) {
	repo.db.students.mutex.RLock()
	defer repo.db.students.mutex.RUnlock()

	if std, ok := repo.db.students.table[id]; ok {
		return *std, nil
	}
	return academics.Student{}, academics.ErrStudentNotFound
}

func (repo *studentRepository) GetStudentDetail(ctx context.Context, id primitive.ObjectID) (academics.StudentDetail, error) {
	std, err := repo.GetStudentByID(ctx, id)
	if err != nil {
		return academics.StudentDetail{}, err
	}
	return repo.populate(std)[0], nil
}

func (repo *studentRepository) UpdateStudentRefs(_ context.Context, id, classID, schoolID primitive.ObjectID) error {
	repo.db.students.mutex.Lock()
	defer repo.db.students.mutex.Unlock()

	std, ok := repo.db.students.table[id]
	if !ok {
		return academics.ErrStudentNotFound
	}
	std.StudentClass = classID
	std.StudentSchool = schoolID
	return nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id primitive.ObjectID) error {
	repo.db.students.mutex.Lock()
	defer repo.db.students.mutex.Unlock()

	if _, ok := repo.db.students.table[id]; !ok {
		return academics.ErrStudentNotFound
	}
	delete(repo.db.students.table, id)
	return nil
}

func (repo *studentRepository) populate(students ...academics.Student) []academics.StudentDetail {
	repo.db.classes.mutex.RLock()
	defer repo.db.classes.mutex.RUnlock()
	repo.db.schools.mutex.RLock()
	defer repo.db.schools.mutex.RUnlock()

	details := make([]academics.StudentDetail, 0, len(students))
	for _, std := range students {
		detail := academics.StudentDetail{
			ID:          std.ID,
			StudentName: std.StudentName,
		}
		if cls, ok := repo.db.classes.table[std.StudentClass]; ok {
			cls := *cls
			detail.StudentClass = &cls
		}
		if sch, ok := repo.db.schools.table[std.StudentSchool]; ok {
			sch := *sch
			detail.StudentSchool = &sch
		}
		details = append(details, detail)
	}
	return details
}
