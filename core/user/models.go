package user

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/schema"
)

// Roles. Role is the sole authorization dimension: an integer privilege level
// attached to every authenticated caller. RoleAdmin and above may mutate any
// record; there is no per-resource ownership check.
const (
	RoleStudent = 1
	RoleTeacher = 2
	RoleAdmin   = 3

	DefaultRole = RoleStudent
)

// Allowed reports whether a caller's role meets the minimum role requirement.
func Allowed(callerRole, minRole int) bool {
	return callerRole >= minRole
}

type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	Role     int                `json:"role" bson:"role"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return Allowed(u.Role, RoleAdmin)
}

// Rule-sets.
var (
	createUserRules = schema.RuleSet{
		{Path: "name", Model: schema.ModelShortText},
		{Path: "username", Model: schema.ModelUsername, Required: true},
		{Path: "email", Model: schema.ModelEmail, Required: true},
		{Path: "password", Model: schema.ModelPassword, Required: true},
	}
	loginRules = schema.RuleSet{
		{Path: "username", Model: schema.ModelUsername, Required: true},
		{Path: "password", Model: schema.ModelPassword, Required: true},
	}
	resetPasswordRules = schema.RuleSet{
		{Path: "token", Model: schema.ModelLongText, Required: true},
		{Path: "uid", Model: schema.ModelLongText, Required: true},
		{Path: "password", Model: schema.ModelPassword, Required: true},
	}
)

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (nu *NewUser) Validate(v *schema.Validator) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return v.Validate(createUserRules, map[string]interface{}{
		"name":     nu.Name,
		"username": nu.Username,
		"email":    nu.Email,
		"password": nu.Password,
	})
}

// Credentials is a login request payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Credentials) Validate(v *schema.Validator) error {
	c.Username = core.CleanString(c.Username, true /* lower */)
	return v.Validate(loginRules, map[string]interface{}{
		"username": c.Username,
		"password": c.Password,
	})
}

// ResetUserPassword confirms a password reset with the emailed token.
type ResetUserPassword struct {
	Token    string `json:"token"`
	UID      string `json:"uid"`
	Password string `json:"password"`
}

func (rp *ResetUserPassword) Validate(v *schema.Validator) error {
	return v.Validate(resetPasswordRules, map[string]interface{}{
		"token":    rp.Token,
		"uid":      rp.UID,
		"password": rp.Password,
	})
}
