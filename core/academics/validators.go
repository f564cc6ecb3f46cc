package academics

import (
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/schema"
)

// Rule-sets, one per mutating operation.
var (
	createSchoolRules = schema.RuleSet{
		{Path: "schoolName", Model: schema.ModelLongText, Required: true},
		{Path: "classes", Model: schema.ModelArrayOfStrings},
	}
	assignClassesRules = schema.RuleSet{
		{Path: "classes", Model: schema.ModelArrayOfStrings, Required: true},
	}

	createClassRules = schema.RuleSet{
		{Path: "className", Model: schema.ModelLongText, Required: true},
		{Path: "students", Model: schema.ModelArrayOfStrings},
		{Path: "school", Model: schema.ModelID, Required: true},
	}
	assignStudentsRules = schema.RuleSet{
		{Path: "students", Model: schema.ModelArrayOfStrings, Required: true},
	}

	createStudentRules = schema.RuleSet{
		{Path: "studentName", Model: schema.ModelLongText, Required: true},
		{Path: "studentClass", Model: schema.ModelID, Required: true},
		{Path: "studentSchool", Model: schema.ModelID, Required: true},
	}
	updateStudentRules = schema.RuleSet{
		{Path: "newClass", Model: schema.ModelID},
		{Path: "newSchool", Model: schema.ModelID},
	}
)

// NewSchool contains information needed to create a new School.
type NewSchool struct {
	SchoolName string   `json:"schoolName"`
	Classes    []string `json:"classes"`
}

func (ns *NewSchool) Validate(v *schema.Validator) error {
	ns.SchoolName = core.CleanString(ns.SchoolName)
	return v.Validate(createSchoolRules, map[string]interface{}{
		"schoolName": ns.SchoolName,
		"classes":    ns.Classes,
	})
}

// AssignClasses is the payload of a class-set union merge on a School.
type AssignClasses struct {
	Classes []string `json:"classes"`
}

func (ac *AssignClasses) Validate(v *schema.Validator) error {
	return v.Validate(assignClassesRules, map[string]interface{}{
		"classes": ac.Classes,
	})
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	ClassName string   `json:"className"`
	Students  []string `json:"students"`
	School    string   `json:"school"`
}

func (nc *NewClass) Validate(v *schema.Validator) error {
	nc.ClassName = core.CleanString(nc.ClassName)
	nc.School = core.CleanString(nc.School)
	return v.Validate(createClassRules, map[string]interface{}{
		"className": nc.ClassName,
		"students":  nc.Students,
		"school":    nc.School,
	})
}

// AssignStudents is the payload of a student-set union merge on a Class.
type AssignStudents struct {
	Students []string `json:"students"`
}

func (as *AssignStudents) Validate(v *schema.Validator) error {
	return v.Validate(assignStudentsRules, map[string]interface{}{
		"students": as.Students,
	})
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	StudentName   string `json:"studentName"`
	StudentClass  string `json:"studentClass"`
	StudentSchool string `json:"studentSchool"`
}

func (ns *NewStudent) Validate(v *schema.Validator) error {
	ns.StudentName = core.CleanString(ns.StudentName)
	ns.StudentClass = core.CleanString(ns.StudentClass)
	ns.StudentSchool = core.CleanString(ns.StudentSchool)
	return v.Validate(createStudentRules, map[string]interface{}{
		"studentName":   ns.StudentName,
		"studentClass":  ns.StudentClass,
		"studentSchool": ns.StudentSchool,
	})
}

// UpdateStudent replaces both Class and School references in a single write.
// An omitted field overwrites the stored reference with the zero id; callers
// are expected to always send both.
type UpdateStudent struct {
	NewClass  string `json:"newClass"`
	NewSchool string `json:"newSchool"`
}

func (us *UpdateStudent) Validate(v *schema.Validator) error {
	us.NewClass = core.CleanString(us.NewClass)
	us.NewSchool = core.CleanString(us.NewSchool)
	return v.Validate(updateStudentRules, map[string]interface{}{
		"newClass":  us.NewClass,
		"newSchool": us.NewSchool,
	})
}
