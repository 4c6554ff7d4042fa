package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil", input: nil, expected: nil},
		{name: "empty", input: []string{}, expected: []string{}},
		{name: "comma split brokers", input: []string{"kafka-1:9092", " kafka-2:9092", "kafka-1:9092 ", " "}, expected: []string{"kafka-1:9092", "kafka-2:9092"}},
		{name: "case preserved", input: []string{"A", "a"}, expected: []string{"A", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	got := DedupeAndTrimLower([]string{" Example.COM", "example.com", "", "lab.example.org"})
	assert.Equal(t, []string{"example.com", "lab.example.org"}, got)
}
