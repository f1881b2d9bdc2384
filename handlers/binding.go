package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"task-board-api/models"
)

const createSchemaJSON = `{
	"type": "object",
	"additionalProperties": false,
	"required": ["title"],
	"properties": {
		"title":       {"type": "string"},
		"description": {"type": ["string", "null"]},
		"dueDate":     {"type": ["string", "null"]},
		"status":      {"type": ["string", "null"]},
		"images":      {"type": ["array", "null"], "items": {"type": "string"}}
	}
}`

const updateSchemaJSON = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"title":       {"type": ["string", "null"]},
		"description": {"type": ["string", "null"]},
		"dueDate":     {"type": ["string", "null"]},
		"status":      {"type": ["string", "null"]},
		"images":      {"type": ["array", "null"], "items": {"type": "string"}}
	}
}`

var (
	createSchema = jsonschema.MustCompileString("task-item-create.json", createSchemaJSON)
	updateSchema = jsonschema.MustCompileString("task-item-update.json", updateSchemaJSON)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// checkBody rejects bodies that are not a JSON object, that name a field
// outside the writable set, or whose values have the wrong JSON type.
func checkBody(schema *jsonschema.Schema, body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &models.ValidationError{Message: "Invalid request body."}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return &models.ValidationError{Message: "Request body must be a JSON object."}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := models.ParseField(k); err != nil {
			return err
		}
	}

	if err := schema.Validate(doc); err != nil {
		return &models.ValidationError{Message: schemaMessage(err)}
	}
	return nil
}

// schemaMessage reports the first leaf cause of a schema failure.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	if field == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s: %s", field, ve.Message)
}

// bindBody decodes a checked body into obj and runs the binding validators.
func bindBody(body []byte, obj any) error {
	err := binding.JSON.BindBody(body, obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &models.ValidationError{Field: fe.Field(), Message: validationMessage(fe)}
	}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &models.ValidationError{Field: te.Field, Message: fmt.Sprintf("%s has an invalid type.", te.Field)}
	}
	return &models.ValidationError{Message: "Invalid request body."}
}

func validationMessage(fe validator.FieldError) string {
	name := fe.Field()
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", name)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters.", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", name)
	}
}
