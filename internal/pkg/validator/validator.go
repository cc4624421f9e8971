package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

// Closed enums accepted by the callable DTOs
var enums = map[string][]string{
	"post_type":          {"offer", "request"},
	"service_type":       {"babysitting", "pet_care", "tutoring", "yard_work", "house_help", "tech_help", "errands", "other"},
	"price_type":         {"free", "fixed", "hourly", "negotiable"},
	"delivery_mode":      {"in_person", "remote", "either"},
	"meeting_preference": {"requester_home", "provider_home", "public_place", "online", "flexible"},
	"report_reason":      {"spam", "harassment", "inappropriate_content", "scam", "safety_concern", "impersonation", "underage_risk", "other"},
	"contact_type":       {"phone", "email"},
	"booking_action":     {"accept", "decline", "cancel", "complete"},
}

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for tag, values := range enums {
		validate.RegisterValidation(tag, oneOf(values))
	}

	validate.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		zip := fl.Field().String()
		if len(zip) != 5 {
			return false
		}
		for _, c := range zip {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": "Invalid request"}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		field := err.Field()
		if values, isEnum := enums[err.Tag()]; isEnum {
			errors[field] = "Invalid value. Must be one of: " + strings.Join(values, ", ")
			continue
		}
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "uuid":
			errors[field] = "Invalid id format"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "zipcode":
			errors[field] = "Invalid zipcode. Must be 5 digits"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
