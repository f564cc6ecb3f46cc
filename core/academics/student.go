package academics

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/schema"
)

var (
	// errors
	ErrStudentNotFound  = core.NewNotFoundError("student not found")
	ErrInvalidStudentID = core.NewValidationError(errors.New("invalid student id"))
)

type (
	StudentRepository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]StudentDetail, error)
		GetStudentByID(ctx context.Context, id primitive.ObjectID) (Student, error)
		GetStudentDetail(ctx context.Context, id primitive.ObjectID) (StudentDetail, error)
		// UpdateStudentRefs replaces both references in a single write.
		UpdateStudentRefs(ctx context.Context, id, classID, schoolID primitive.ObjectID) error
		DeleteStudent(ctx context.Context, id primitive.ObjectID) error
	}

	StudentService struct {
		repo   StudentRepository
		schema *schema.Validator
	}
)

func NewStudentService(repo StudentRepository, sv *schema.Validator) *StudentService {
	return &StudentService{repo: repo, schema: sv}
}

// Create adds a student. The class and school references are only
// shape-checked; their existence is not enforced.
func (svc *StudentService) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.schema); err != nil {
		return Student{}, err
	}
	class, err := ParseID(ns.StudentClass, ErrInvalidClassID)
	if err != nil {
		return Student{}, err
	}
	school, err := ParseID(ns.StudentSchool, ErrInvalidSchoolID)
	if err != nil {
		return Student{}, err
	}
	std := Student{
		StudentName:   ns.StudentName,
		StudentClass:  class,
		StudentSchool: school,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *StudentService) QueryAll(ctx context.Context) ([]StudentDetail, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *StudentService) Get(ctx context.Context, id string) (StudentDetail, error) {
	oid, err := ParseID(id, ErrInvalidStudentID)
	if err != nil {
		return StudentDetail{}, err
	}
	return svc.repo.GetStudentDetail(ctx, oid)
}

// Update replaces both the class and school references in one write, even when
// only one is supplied; the omitted one is overwritten with the zero id.
func (svc *StudentService) Update(ctx context.Context, id string, us UpdateStudent) error {
	oid, err := ParseID(id, ErrInvalidStudentID)
	if err != nil {
		return err
	}
	if _, err = svc.repo.GetStudentByID(ctx, oid); err != nil {
		return err
	}
	if err = us.Validate(svc.schema); err != nil {
		return err
	}

	var classID, schoolID primitive.ObjectID
	if us.NewClass != "" {
		if classID, err = ParseID(us.NewClass, ErrInvalidClassID); err != nil {
			return err
		}
	}
	if us.NewSchool != "" {
		if schoolID, err = ParseID(us.NewSchool, ErrInvalidSchoolID); err != nil {
			return err
		}
	}
	return svc.repo.UpdateStudentRefs(ctx, oid, classID, schoolID)
}

func (svc *StudentService) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id, ErrInvalidStudentID)
	if err != nil {
		return err
	}
	if _, err = svc.repo.GetStudentByID(ctx, oid); err != nil {
		return err
	}
	return svc.repo.DeleteStudent(ctx, oid)
}
