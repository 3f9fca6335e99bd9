package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const testSchema = `{
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "size": {"type": "integer"}
  }
}`

func decode(t *testing.T, raw string) any {
	t.Helper()
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return payload
}

func TestSchemaValidateAcceptsPayload(t *testing.T) {
	schema := MustCompile("entry.json", []byte(testSchema))

	if err := schema.Validate(decode(t, `{"id": "finn", "size": 3}`)); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
}

func TestSchemaValidateReportsIssues(t *testing.T) {
	schema := MustCompile("entry.json", []byte(testSchema))

	err := schema.Validate(decode(t, `{"size": "big"}`))
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) < 2 {
		t.Fatalf("expected required and type issues, got %#v", issues)
	}
	if !strings.Contains(err.Error(), "#/size") {
		t.Fatalf("expected issue location in message, got %q", err.Error())
	}
}

func TestCompileRejectsInvalidSchema(t *testing.T) {
	if _, err := Compile("", []byte(`{"type": 12}`)); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestIssuesFallsBackToMessage(t *testing.T) {
	issues := Issues(errors.New("plain"))
	if len(issues) != 1 || issues[0].Message != "plain" {
		t.Fatalf("unexpected issues %#v", issues)
	}
	if Issues(nil) != nil {
		t.Fatalf("expected nil issues for nil error")
	}
}

func TestNilSchemaAcceptsEverything(t *testing.T) {
	var schema *Schema
	if err := schema.Validate(map[string]any{}); err != nil {
		t.Fatalf("expected nil schema to accept payload")
	}
}
