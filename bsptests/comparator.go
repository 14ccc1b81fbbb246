package bsptests

import (
	"encoding/json"
	"fmt"

	"github.com/stretchr/testify/assert"
)

// Compare checks that actual is structurally equal to expected, returning nil if so or a
// ResultMismatch failure if not.
//
// Values that are not identical as Go values are compared again in their JSON form, so the
// internal representation of opaque fields and the key order of objects make no difference.
// The order of array elements does.
func Compare(expected, actual interface{}) error {
	if assert.ObjectsAreEqual(expected, actual) {
		return nil
	}
	expectedJSON, expectedErr := json.Marshal(expected)
	actualJSON, actualErr := json.Marshal(actual)
	if expectedErr == nil && actualErr == nil {
		var normalizedExpected, normalizedActual interface{}
		if json.Unmarshal(expectedJSON, &normalizedExpected) == nil &&
			json.Unmarshal(actualJSON, &normalizedActual) == nil &&
			assert.ObjectsAreEqual(normalizedExpected, normalizedActual) {
			return nil
		}
	}
	return &AssertionFailure{
		Kind:     ResultMismatch,
		Message:  fmt.Sprintf("expected %s, got %s", jsonForm(expectedJSON, expectedErr, expected), jsonForm(actualJSON, actualErr, actual)),
		Expected: expected,
		Actual:   actual,
	}
}

// CompareResults is a typed form of Compare.
func CompareResults[R any](expected, actual R) error {
	return Compare(expected, actual)
}

func jsonForm(data []byte, err error, value interface{}) string {
	if err != nil {
		return fmt.Sprintf("%+v", value)
	}
	return string(data)
}

// requireMatch fails the test immediately if the response to method does not match expected.
func requireMatch(t *T, method string, expected, actual interface{}) {
	if err := Compare(expected, actual); err != nil {
		if f, ok := err.(*AssertionFailure); ok {
			f.Method = method
		}
		t.fail(err)
	}
}
