package llmjson

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectFindsFencedJSON(t *testing.T) {
	t.Parallel()
	raw := "Sure! Here is the plan:\n```json\n{\"a\": \"x {not a brace}\", \"b\": {\"c\": 1}}\n```\nGood luck."
	obj, ok := Object(raw)
	require.True(t, ok)
	require.JSONEq(t, `{"a": "x {not a brace}", "b": {"c": 1}}`, obj)
}

func TestObjectSkipsInvalidCandidates(t *testing.T) {
	t.Parallel()
	obj, ok := Object(`{oops} then {"ok": true}`)
	require.True(t, ok)
	require.Equal(t, `{"ok": true}`, obj)

	_, ok = Object("no json here")
	require.False(t, ok)
}

func TestDecodeReportsMissingObject(t *testing.T) {
	t.Parallel()
	var v map[string]any
	require.True(t, errors.Is(Decode("plain prose", &v), ErrNoObject))
}

func TestStringListAcceptsArrayOrText(t *testing.T) {
	t.Parallel()
	var payload struct {
		A StringList `json:"a"`
		B StringList `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": ["one", " ", "two"], "b": "1. first\n- second\n"}`), &payload))
	require.Equal(t, StringList{"one", "two"}, payload.A)
	require.Equal(t, StringList{"first", "second"}, payload.B)
}

func TestMinutes(t *testing.T) {
	t.Parallel()
	cases := map[string]int{
		`45`:           45,
		`"30 minutes"`: 30,
		`"2 hours"`:    120,
		`"1.5h"`:       90,
		`"90"`:         90,
	}
	for in, want := range cases {
		var m Minutes
		require.NoError(t, json.Unmarshal([]byte(in), &m), in)
		require.Equal(t, want, int(m), in)
	}
	var m Minutes
	require.Error(t, json.Unmarshal([]byte(`"soon"`), &m))
}
