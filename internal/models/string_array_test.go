package models

import (
	"reflect"
	"testing"
)

func TestStringArrayScanJSONArray(t *testing.T) {
	var s StringArray
	if err := s.Scan([]byte(`["fast","cheap"]`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !reflect.DeepEqual([]string(s), []string{"fast", "cheap"}) {
		t.Fatalf("got %v", s)
	}
}

func TestStringArrayScanLegacyPlainString(t *testing.T) {
	var s StringArray
	if err := s.Scan([]byte("just one advantage")); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !reflect.DeepEqual([]string(s), []string{"just one advantage"}) {
		t.Fatalf("got %v", s)
	}
}

func TestStringArrayScanNull(t *testing.T) {
	var s StringArray
	if err := s.Scan(nil); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(s) != 0 {
		t.Fatalf("expected empty, got %v", s)
	}
}

func TestStringArrayValueRoundTrip(t *testing.T) {
	in := StringArray{"a", "b"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	var out StringArray
	if err := out.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %v != %v", in, out)
	}
}
