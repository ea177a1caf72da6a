// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows() []map[string]any {
	return []map[string]any{
		{"rating": 800, "total": 40, "solved": 12},
		{"rating": 1200, "total": 25, "solved": 0},
		{"rating": 1600, "total": 9, "solved": 1},
	}
}

var cols = []Column{
	{Key: "rating", Title: "RATING"},
	{Key: "total", Title: "TOTAL"},
	{Key: "solved", Title: "SOLVED"},
}

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []Filter
	}{
		{
			name: "empty",
			spec: "",
			want: nil,
		},
		{
			name: "single",
			spec: "rating>1000",
			want: []Filter{{Key: "rating", Operand: ">", Target: "1000"}},
		},
		{
			name: "negated and multiple",
			spec: "solved!=0,rating<1500",
			want: []Filter{
				{Key: "solved", Negate: true, Operand: "=", Target: "0"},
				{Key: "rating", Operand: "<", Target: "1500"},
			},
		},
		{
			name: "malformed skipped",
			spec: "rating,total>1",
			want: []Filter{{Key: "total", Operand: ">", Target: "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestBuildFilters_Delim(t *testing.T) {
	t.Setenv("CFLADDER_FILTER_DELIM", ";")
	got := BuildFilters("rating>1000;solved=1")
	assert.Len(t, got, 2)
}

func TestFilterRows(t *testing.T) {
	tests := []struct {
		name       string
		spec       string
		wantRating []int
	}{
		{"no filter", "", []int{800, 1200, 1600}},
		{"numeric greater", "rating>1000", []int{1200, 1600}},
		{"numeric not equal", "solved!=0", []int{800, 1600}},
		{"combined", "rating>1000,solved=1", []int{1600}},
		{"unknown key ignored", "nope=1", []int{800, 1200, 1600}},
		{"prefix on number", "rating^1", []int{1200, 1600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRows(rows(), tt.spec)
			var ratings []int
			for _, r := range got {
				ratings = append(ratings, r["rating"].(int))
			}
			assert.Equal(t, tt.wantRating, ratings)
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		value  string
		filter Filter
		want   bool
	}{
		{"Div. 2", Filter{Operand: "=", Target: "Div. 2"}, true},
		{"Div. 2", Filter{Operand: "~", Target: "div. 2"}, true},
		{"Div. 2", Filter{Operand: "@", Target: "2"}, true},
		{"Div. 2", Filter{Operand: "@", Target: "2", Negate: true}, false},
		{"Div. 2", Filter{Operand: "/", Target: `^Div\. [12]$`}, true},
		{"Div. 2", Filter{Operand: "/", Target: `(`}, false},
		{"Div. 2", Filter{Operand: "?", Target: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.filter.Operand+tt.filter.Target, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestSpit_JSON(t *testing.T) {
	var buf bytes.Buffer
	doc := []map[string]int{{"division": 2}}
	require.NoError(t, Spit(&buf, doc, nil, nil, Options{Format: "json"}))
	assert.JSONEq(t, `[{"division":2}]`, buf.String())
}

func TestSpit_YAML(t *testing.T) {
	var buf bytes.Buffer
	doc := map[string]int{"division": 2}
	require.NoError(t, Spit(&buf, doc, nil, nil, Options{Format: "yaml"}))
	assert.Equal(t, "division: 2\n", buf.String())
}

func TestSpit_Text(t *testing.T) {
	t.Setenv("CFLADDER_CFG", "")

	var buf bytes.Buffer
	require.NoError(t, Spit(&buf, nil, rows(), cols, Options{Format: "text", Titles: true, Filter: "rating>1000"}))

	out := buf.String()
	assert.Contains(t, out, "RATING")
	assert.Contains(t, out, "1600")
	assert.NotContains(t, out, "800")
}

func TestTableWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	TableWriter(&buf, nil, cols, Options{})
	assert.Empty(t, buf.String())
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "float64", value: 42.5, want: "42"},
		{name: "float64 with decimal", value: 42.7, want: "43"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is zero value", value: false, want: ""},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "zero int custom", value: 0, emptyVal: "0", want: "0"},
		{name: "slice", value: []string{"a", "b"}, want: `["a","b"]`},
		{name: "map", value: map[string]int{"x": 1}, want: `{"x":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")
	assert.NotEmpty(t, header)
	assert.NotEmpty(t, even)
	assert.NotEmpty(t, odd)
}

func BenchmarkInterfaceToString(b *testing.B) {
	values := []interface{}{
		"string",
		42,
		42.5,
		true,
		nil,
		[]string{"a", "b"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, v := range values {
			InterfaceToString(v)
		}
	}
}
