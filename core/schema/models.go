package schema

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core"
)

// Built-in model names.
const (
	ModelShortText      = "shortText"
	ModelLongText       = "longText"
	ModelEmail          = "email"
	ModelUsername       = "username"
	ModelPassword       = "password"
	ModelID             = "id"
	ModelArrayOfStrings = "arrayOfStrings"
	ModelNumber         = "number"
	ModelBool           = "bool"
)

const (
	shortTextMaxLen = 50
	longTextMaxLen  = 250
)

func (v *Validator) registerBuiltins() {
	v.Register(ModelShortText, v.textModel(shortTextMaxLen))
	v.Register(ModelLongText, v.textModel(longTextMaxLen))
	v.Register(ModelEmail, v.varModel("required,email"))
	v.Register(ModelUsername, v.varModel("required,min=3,max=20,alphanum_"))
	v.Register(ModelPassword, v.varModel("required,min=8,max=100"))
	v.Register(ModelID, idModel)
	v.Register(ModelArrayOfStrings, arrayOfStringsModel)
	v.Register(ModelNumber, numberModel)
	v.Register(ModelBool, boolModel)
}

// varModel checks string values against a validator.v10 tag expression.
func (v *Validator) varModel(tag string) ModelFunc {
	return func(val interface{}) bool {
		s, ok := val.(string)
		if !ok {
			return false
		}
		return v.validate.Var(s, tag) == nil
	}
}

func (v *Validator) textModel(maxLen int) ModelFunc {
	return func(val interface{}) bool {
		s, ok := val.(string)
		if !ok {
			return false
		}
		s = core.CleanString(s)
		return s != "" && len(s) <= maxLen
	}
}

// idModel accepts syntactically valid document ids (24-char hex).
func idModel(val interface{}) bool {
	switch v := val.(type) {
	case string:
		_, err := primitive.ObjectIDFromHex(v)
		return err == nil
	case primitive.ObjectID:
		return !v.IsZero()
	}
	return false
}

func arrayOfStringsModel(val interface{}) bool {
	switch vals := val.(type) {
	case []string:
		for _, s := range vals {
			if s == "" {
				return false
			}
		}
		return true
	case []interface{}:
		for _, elem := range vals {
			s, ok := elem.(string)
			if !ok || s == "" {
				return false
			}
		}
		return true
	}
	return false
}

func numberModel(val interface{}) bool {
	switch val.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	return false
}

func boolModel(val interface{}) bool {
	_, ok := val.(bool)
	return ok
}
