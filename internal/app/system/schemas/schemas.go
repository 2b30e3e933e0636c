// internal/app/system/schemas/schemas.go

// Package schemas validates request bodies against compiled JSON Schemas
// before any field reaches a store. Validation failures surface the first
// failing field's message, which handlers return as the 400 error body.
package schemas

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const emailPattern = `^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$`

// Register validates POST /register bodies.
var Register = jsonschema.MustCompileString("register.json", `{
	"type": "object",
	"required": ["email", "full_name", "password"],
	"properties": {
		"email":     {"type": "string", "minLength": 1, "pattern": "`+emailPattern+`"},
		"full_name": {"type": "string", "minLength": 2},
		"password":  {"type": "string", "minLength": 5}
	}
}`)

// Login validates POST /login bodies.
var Login = jsonschema.MustCompileString("login.json", `{
	"type": "object",
	"required": ["email", "password"],
	"properties": {
		"email":    {"type": "string", "minLength": 1},
		"password": {"type": "string", "minLength": 1}
	}
}`)

// ProjectCreate validates POST /projects bodies.
var ProjectCreate = jsonschema.MustCompileString("project_create.json", `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name":        {"type": "string", "minLength": 1},
		"description": {"type": "string"}
	}
}`)

// ProjectUpdate validates PUT /projects/{id} bodies. Both fields are
// optional; the handler rejects an update naming neither.
var ProjectUpdate = jsonschema.MustCompileString("project_update.json", `{
	"type": "object",
	"properties": {
		"name":        {"type": "string", "minLength": 1},
		"description": {"type": "string"}
	}
}`)

// Invite validates POST /projects/{id}/invitations bodies.
var Invite = jsonschema.MustCompileString("invite.json", `{
	"type": "object",
	"required": ["email"],
	"properties": {
		"email": {"type": "string", "minLength": 1, "pattern": "`+emailPattern+`"}
	}
}`)

// InvitationAction validates POST /invitations bodies (accept/decline).
var InvitationAction = jsonschema.MustCompileString("invitation_action.json", `{
	"type": "object",
	"required": ["token"],
	"properties": {
		"token": {"type": "string", "minLength": 1}
	}
}`)

// TaskCreate validates POST /tasks bodies.
var TaskCreate = jsonschema.MustCompileString("task_create.json", `{
	"type": "object",
	"required": ["projectId", "title"],
	"properties": {
		"projectId":   {"type": "string", "minLength": 1},
		"title":       {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"status":      {"enum": ["backlog", "todo", "in_progress", "done"]},
		"priority":    {"enum": ["low", "medium", "high", "urgent"]},
		"dueDate":     {"type": "string"},
		"assignedTo":  {"type": "array", "items": {"type": "string"}}
	}
}`)

// Prioritize validates POST /ai/prioritize bodies.
var Prioritize = jsonschema.MustCompileString("prioritize.json", `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title":       {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"dueDate":     {"type": "string"}
	}
}`)

// Validate checks a raw JSON body against a schema. It returns nil when the
// body conforms, and an error whose message names the first failing field
// otherwise.
func Validate(schema *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		field, msg := firstFailure(ve)
		if field != "" {
			return fmt.Errorf("%s: %s", field, msg)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

var missingPropRe = regexp.MustCompile(`missing propert(?:y|ies):? '([^']+)'`)

// firstFailure walks to the first leaf cause and reports it as a
// (field, message) pair.
func firstFailure(ve *jsonschema.ValidationError) (field, msg string) {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if m := missingPropRe.FindStringSubmatch(ve.Message); m != nil {
		return m[1], "is required"
	}
	field = strings.TrimPrefix(ve.InstanceLocation, "/")
	field = strings.ReplaceAll(field, "/", ".")
	return field, ve.Message
}
