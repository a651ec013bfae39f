package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		arg       string
		wantKey   string
		wantValue any
		wantErr   bool
	}{
		{name: "text", arg: "Status=done", wantKey: "Status", wantValue: "done"},
		{name: "text keeps equals signs", arg: "Formula==A1+1", wantKey: "Formula", wantValue: "=A1+1"},
		{name: "empty text", arg: "Note=", wantKey: "Note", wantValue: ""},
		{name: "number", arg: "Points:=3", wantKey: "Points", wantValue: float64(3)},
		{name: "bool", arg: "Active:=true", wantKey: "Active", wantValue: true},
		{name: "null", arg: "Note:=null", wantKey: "Note", wantValue: nil},
		{name: "quoted json text", arg: `Code:="007"`, wantKey: "Code", wantValue: "007"},
		{name: "key is trimmed", arg: " Status =open", wantKey: "Status", wantValue: "open"},
		{name: "missing equals", arg: "Status", wantErr: true},
		{name: "empty key", arg: "=x", wantErr: true},
		{name: "invalid json", arg: "Points:=three", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			key, value, err := parseAssignment(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestParseAssignments_LastWins(t *testing.T) {
	t.Parallel()

	fields, err := parseAssignments([]string{"Status=open", "Status=done", "Points:=1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Status": "done", "Points": float64(1)}, fields)
}
