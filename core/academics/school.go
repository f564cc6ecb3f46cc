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
	ErrSchoolNotFound  = core.NewNotFoundError("school not found")
	ErrInvalidSchoolID = core.NewValidationError(errors.New("invalid school id"))
)

type (
	SchoolRepository interface {
		CreateSchool(ctx context.Context, sch School) (School, error)
		QueryAllSchools(ctx context.Context) ([]SchoolDetail, error)
		GetSchoolByID(ctx context.Context, id primitive.ObjectID) (School, error)
		GetSchoolDetail(ctx context.Context, id primitive.ObjectID) (SchoolDetail, error)
		// AddClassesToSet performs an atomic union merge on the classes set.
		AddClassesToSet(ctx context.Context, id primitive.ObjectID, classIDs []primitive.ObjectID) error
		DeleteSchool(ctx context.Context, id primitive.ObjectID) error
	}

	SchoolService struct {
		repo   SchoolRepository
		schema *schema.Validator
	}
)

func NewSchoolService(repo SchoolRepository, sv *schema.Validator) *SchoolService {
	return &SchoolService{repo: repo, schema: sv}
}

func (svc *SchoolService) Create(ctx context.Context, ns NewSchool) (School, error) {
	if err := ns.Validate(svc.schema); err != nil {
		return School{}, err
	}
	classes, err := parseIDs(ns.Classes, "classes")
	if err != nil {
		return School{}, err
	}
	sch := School{
		SchoolName: ns.SchoolName,
		Classes:    classes,
	}
	return svc.repo.CreateSchool(ctx, sch)
}

func (svc *SchoolService) QueryAll(ctx context.Context) ([]SchoolDetail, error) {
	return svc.repo.QueryAllSchools(ctx)
}

func (svc *SchoolService) Get(ctx context.Context, id string) (SchoolDetail, error) {
	oid, err := ParseID(id, ErrInvalidSchoolID)
	if err != nil {
		return SchoolDetail{}, err
	}
	return svc.repo.GetSchoolDetail(ctx, oid)
}

// AssignClasses union-merges classIDs into the school's classes set via the
// store's atomic primitive and returns the freshly fetched document.
func (svc *SchoolService) AssignClasses(ctx context.Context, id string, ac AssignClasses) (School, error) {
	oid, err := ParseID(id, ErrInvalidSchoolID)
	if err != nil {
		return School{}, err
	}
	if _, err = svc.repo.GetSchoolByID(ctx, oid); err != nil {
		return School{}, err
	}
	if err = ac.Validate(svc.schema); err != nil {
		return School{}, err
	}
	classIDs, err := parseIDs(ac.Classes, "classes")
	if err != nil {
		return School{}, err
	}
	if err = svc.repo.AddClassesToSet(ctx, oid, classIDs); err != nil {
		return School{}, err
	}
	return svc.repo.GetSchoolByID(ctx, oid)
}

// Delete removes the school. Classes that still reference it keep their
// dangling reference; there is no cascade.
func (svc *SchoolService) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id, ErrInvalidSchoolID)
	if err != nil {
		return err
	}
	if _, err = svc.repo.GetSchoolByID(ctx, oid); err != nil {
		return err
	}
	return svc.repo.DeleteSchool(ctx, oid)
}
