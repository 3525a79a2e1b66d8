package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/jiahaoliu/minimall-backend/pkg/errors"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required,min=2"`
	Count int    `json:"count" validate:"omitempty,min=1"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"hello","count":3}`))

	var payload samplePayload
	if err := DecodeJSONBody(r, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "hello" || payload.Count != 3 {
		t.Fatalf("payload not decoded: %+v", payload)
	}
}

func TestDecodeJSONBodyUnknownField(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"hello","bogus":true}`))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	if err == nil {
		t.Fatal("expected unknown field error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(""))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	if err == nil {
		t.Fatal("expected empty body error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))

	var payload samplePayload
	err := DecodeJSONBody(r, &payload)
	if err == nil {
		t.Fatal("expected min length failure")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if _, ok := details["name"]; !ok {
		t.Fatalf("expected a message keyed by json field name, got %v", details)
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=4", nil)

	got, err := ParseQueryInt(r, "page", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}

	got, err = ParseQueryInt(r, "missing", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}

	bad := httptest.NewRequest("GET", "/?page=abc", nil)
	if _, err := ParseQueryInt(bad, "page", 1); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParsePaginationNormalizes(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=0&page_size=9999", nil)

	params, err := ParsePagination(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 1 {
		t.Fatalf("expected page 1, got %d", params.Page)
	}
	if params.PageSize != 100 {
		t.Fatalf("expected page size capped at 100, got %d", params.PageSize)
	}
}
