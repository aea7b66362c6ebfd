package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalStringOrInteger(t *testing.T) {
	var got struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a": "truck-1", "b": 42, "c": -7}`), &got)
	require.NoError(t, err)
	require.Equal(t, ID("truck-1"), got.A)
	require.Equal(t, ID("42"), got.B)
	require.Equal(t, ID("-7"), got.C)

	out, err := json.Marshal(got.B)
	require.NoError(t, err)
	require.JSONEq(t, `"42"`, string(out))
}

func TestID_RejectsOtherValues(t *testing.T) {
	for _, in := range []string{`1.5`, `null`, `true`, `{}`, `[1]`} {
		var id ID
		require.Error(t, json.Unmarshal([]byte(in), &id), in)
	}
}

func TestErrors_MatchTheirSentinels(t *testing.T) {
	err := Malformed("jobs[2].location_index", "%d is outside [0, %d)", 9, 4)
	require.ErrorIs(t, err, ErrMalformedProblem)
	require.False(t, errors.Is(err, ErrInfeasible))
	require.EqualError(t, err, "malformed problem: jobs[2].location_index: 9 is outside [0, 4)")

	var inf error = &InfeasibleError{Reason: "capacity exceeded", Unassigned: []ID{"a", "7"}}
	require.ErrorIs(t, inf, ErrInfeasible)
	require.EqualError(t, inf, "infeasible problem: capacity exceeded (unassigned jobs: a, 7)")

	var target *InfeasibleError
	require.ErrorAs(t, errors.Join(errors.New("solve"), inf), &target)
	require.Equal(t, []ID{"a", "7"}, target.Unassigned)
}
