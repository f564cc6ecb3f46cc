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
	ErrClassNotFound  = core.NewNotFoundError("class not found")
	ErrInvalidClassID = core.NewValidationError(errors.New("invalid class id"))
)

type (
	ClassRepository interface {
		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryAllClasses(ctx context.Context) ([]ClassDetail, error)
		GetClassByID(ctx context.Context, id primitive.ObjectID) (Class, error)
		// AddStudentsToSet performs an atomic union merge on the students set.
		AddStudentsToSet(ctx context.Context, id primitive.ObjectID, studentIDs []primitive.ObjectID) error
		DeleteClass(ctx context.Context, id primitive.ObjectID) error
	}

	ClassService struct {
		repo   ClassRepository
		schema *schema.Validator
	}
)

func NewClassService(repo ClassRepository, sv *schema.Validator) *ClassService {
	return &ClassService{repo: repo, schema: sv}
}

// Create adds a class. The school reference is only shape-checked; whether the
// school actually exists is not enforced.
func (svc *ClassService) Create(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(svc.schema); err != nil {
		return Class{}, err
	}
	students, err := parseIDs(nc.Students, "students")
	if err != nil {
		return Class{}, err
	}
	school, err := ParseID(nc.School, ErrInvalidSchoolID)
	if err != nil {
		return Class{}, err
	}
	cls := Class{
		ClassName: nc.ClassName,
		School:    school,
		Students:  students,
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *ClassService) QueryAll(ctx context.Context) ([]ClassDetail, error) {
	return svc.repo.QueryAllClasses(ctx)
}

// AssignStudents union-merges studentIDs into the class's students set via the
// store's atomic primitive and returns the freshly fetched document.
func (svc *ClassService) AssignStudents(ctx context.Context, id string, as AssignStudents) (Class, error) {
	oid, err := ParseID(id, ErrInvalidClassID)
	if err != nil {
		return Class{}, err
	}
	if _, err = svc.repo.GetClassByID(ctx, oid); err != nil {
		return Class{}, err
	}
	if err = as.Validate(svc.schema); err != nil {
		return Class{}, err
	}
	studentIDs, err := parseIDs(as.Students, "students")
	if err != nil {
		return Class{}, err
	}
	if err = svc.repo.AddStudentsToSet(ctx, oid, studentIDs); err != nil {
		return Class{}, err
	}
	return svc.repo.GetClassByID(ctx, oid)
}

// Delete removes the class. Students that still reference it keep their
// dangling reference; there is no cascade.
func (svc *ClassService) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id, ErrInvalidClassID)
	if err != nil {
		return err
	}
	if _, err = svc.repo.GetClassByID(ctx, oid); err != nil {
		return err
	}
	return svc.repo.DeleteClass(ctx, oid)
}
