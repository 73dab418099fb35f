package httpapi

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return strings.TrimSpace(field.String()) != ""
	})
}

type SnippetCreateDTO struct {
	Title    string   `json:"title" validate:"required,notblank,max=200"`
	Content  *string  `json:"content" validate:"required,max=250000"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,notblank,max=32,excludesall=0x2C"`
}

func (r *SnippetCreateDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Title": {
				"required": "title and content are required",
				"notblank": "title and content are required",
				"max":      "title is too long",
			},
			"Content": {
				"required": "title and content are required",
				"max":      "content is too long",
			},
			"Category": {
				"max": "category is too long",
			},
			"Tags": {
				"max":         "too many tags",
				"notblank":    "invalid tag",
				"excludesall": "tags cannot contain a comma",
			},
		}, "invalid request")
	}
	return nil
}

type SnippetUpdateDTO struct {
	Title    *string  `json:"title" validate:"omitempty,notblank,max=200"`
	Content  *string  `json:"content" validate:"omitempty,max=250000"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,notblank,max=32,excludesall=0x2C"`
}

func (r *SnippetUpdateDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Title": {
				"notblank": "title cannot be blank",
				"max":      "title is too long",
			},
			"Content": {
				"max": "content is too long",
			},
			"Category": {
				"max": "category is too long",
			},
			"Tags": {
				"max":         "too many tags",
				"notblank":    "invalid tag",
				"excludesall": "tags cannot contain a comma",
			},
		}, "invalid request")
	}
	return nil
}

func validationMessage(err error, messages map[string]map[string]string, fallback string) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errors.New(fallback)
	}
	for _, valErr := range valErrs {
		if fieldMessages, ok := messages[valErr.Field()]; ok {
			if msg, ok := fieldMessages[valErr.Tag()]; ok {
				return errors.New(msg)
			}
			if msg, ok := fieldMessages["*"]; ok {
				return errors.New(msg)
			}
		}
	}
	return errors.New(fallback)
}
