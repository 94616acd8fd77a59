// Package validate checks user input before it reaches the stores.
package validate

import (
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// TodoSchema describes the add/edit form of a todo.
const TodoSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["title"],
	"properties": {
		"title": {"type": "string", "minLength": 1}
	}
}`

// RequiredMessage is shown for a missing or empty field.
const RequiredMessage = "Require"

var todoSchema = jsonschema.MustCompileString("todo.schema.json", TodoSchema)

// FieldError reports the first invalid field of a form.
type FieldError struct {
	Field   string
	Message string
	Detail  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Title validates a todo title as typed by the user. It does not trim:
// callers decide whether surrounding whitespace counts.
func Title(title string) error {
	return Todo(map[string]any{"title": title})
}

// Todo validates a decoded JSON form against TodoSchema.
func Todo(form map[string]any) error {
	err := todoSchema.Validate(form)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate todo: %w", err)
	}
	leaf := firstLeaf(ve)
	field := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if field == "" {
		// "required" failures are reported on the object itself.
		field = "title"
	}
	return &FieldError{Field: field, Message: RequiredMessage, Detail: leaf.Message}
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
