package api

import (
	"errors"
	"testing"
)

func TestValidatePayload_Conforming(t *testing.T) {
	payload := []byte(`{"question":{"id":"q1","text":"Does your board oversee climate risk?","category":"governance"},"phaseComplete":false,"remaining":11}`)
	if err := validatePayload(schemaNextQuestion, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePayload_NullQuestionAllowed(t *testing.T) {
	payload := []byte(`{"question":null,"phaseComplete":true,"remaining":0}`)
	if err := validatePayload(schemaNextQuestion, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePayload_MissingRequiredField(t *testing.T) {
	payload := []byte(`{"question":{"id":"q1","text":"x"}}`) // no phaseComplete
	err := validatePayload(schemaNextQuestion, payload)

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T: %v", err, err)
	}
}

func TestValidatePayload_WrongType(t *testing.T) {
	payload := []byte(`{"percentage":"fifty","answeredCount":1,"totalCount":2}`)
	err := validatePayload(schemaProgress, payload)

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T: %v", err, err)
	}
}

func TestValidatePayload_NotJSON(t *testing.T) {
	err := validatePayload(schemaChatReply, []byte(`<html>backend exploded</html>`))

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T: %v", err, err)
	}
	if len(invalid.Content) == 0 {
		t.Fatal("offending payload not attached")
	}
}

func TestValidatePayload_UnknownFieldsTolerated(t *testing.T) {
	// Backend additions must not break older clients.
	payload := []byte(`{"message":"hi","futureField":{"nested":true}}`)
	if err := validatePayload(schemaChatReply, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompiledSchema_CachedAcrossCalls(t *testing.T) {
	first, err := compiledSchema(schemaScore)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := compiledSchema(schemaScore)
	if err != nil {
		t.Fatalf("recompile: %v", err)
	}
	if first != second {
		t.Fatal("schema not served from cache")
	}
}

func TestCompiledSchema_UnknownName(t *testing.T) {
	if _, err := compiledSchema("no-such-schema"); err == nil {
		t.Fatal("expected error for unknown schema")
	}
}
