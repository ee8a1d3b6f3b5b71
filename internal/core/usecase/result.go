package usecase

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/kirillkom/app-extractor/internal/core/domain"
)

// outputText reads data.outputs.text from a generation result.
//
// Missing keys and nulls count as absent. Duplicate keys resolve to the last
// occurrence. A data or outputs value that is
// present but not an object is reported as domain.ErrMalformedResult so that
// a change in the service's response shape is not mistaken for empty output.
// Falsy text values ("", 0, false, [], {}) count as absent. Strings are
// returned verbatim, every other JSON value as its raw literal.
func outputText(raw json.RawMessage) (string, bool, error) {
	if !gjson.ValidBytes(raw) {
		return "", false, domain.WrapError(domain.ErrMalformedResult, "parse result", errors.New("invalid json"))
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return "", false, domain.WrapError(domain.ErrMalformedResult, "parse result", fmt.Errorf("top level is %s", describeType(root)))
	}

	data, ok, err := objectField(root, "data")
	if err != nil || !ok {
		return "", false, err
	}
	outputs, ok, err := objectField(data, "outputs")
	if err != nil || !ok {
		return "", false, err
	}
	return textValue(lastField(outputs, "text"))
}

// lastField returns the last member named key. gjson.Get stops at the first
// match, while encoding/json keeps the last duplicate.
func lastField(parent gjson.Result, key string) gjson.Result {
	var found gjson.Result
	parent.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
		}
		return true
	})
	return found
}

func objectField(parent gjson.Result, key string) (gjson.Result, bool, error) {
	field := lastField(parent, key)
	if !field.Exists() || field.Type == gjson.Null {
		return gjson.Result{}, false, nil
	}
	if !field.IsObject() {
		return gjson.Result{}, false, domain.WrapError(
			domain.ErrMalformedResult,
			"parse result",
			fmt.Errorf("field %q is %s, want object", key, describeType(field)),
		)
	}
	return field, true, nil
}

func textValue(v gjson.Result) (string, bool, error) {
	switch v.Type {
	case gjson.Null, gjson.False:
		return "", false, nil
	case gjson.String:
		return v.Str, v.Str != "", nil
	case gjson.Number:
		return v.Raw, v.Float() != 0, nil
	case gjson.True:
		return v.Raw, true, nil
	default:
		if v.IsArray() {
			return v.Raw, len(v.Array()) > 0, nil
		}
		if v.IsObject() {
			return v.Raw, len(v.Map()) > 0, nil
		}
		return "", false, nil
	}
}

func describeType(v gjson.Result) string {
	if v.IsArray() {
		return "array"
	}
	return v.Type.String()
}
