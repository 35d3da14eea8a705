package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveChoice(t *testing.T) {
	choices := []string{"Month-to-month", "One year", "Two year"}
	tests := []struct {
		input   string
		choices []string
		want    string
	}{
		{"1", choices, "Month-to-month"},
		{" 3 ", choices, "Two year"},
		{"4", choices, "4"},
		{"0", choices, "0"},
		{"One year", choices, "One year"},
		{"12", nil, "12"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, resolveChoice(tt.input, tt.choices))
		})
	}
}

func TestRun_Conversation(t *testing.T) {
	req := require.New(t)
	testdata := filepath.Join("..", "..", "model", "testdata")
	t.Setenv("MODEL_PATH", filepath.Join(testdata, "model.json"))
	t.Setenv("SCALER_PATH", filepath.Join(testdata, "scaler.json"))
	t.Setenv("LANGUAGE", "en")
	t.Setenv("CONSOLE_COLOURS", "false")

	// Given numbered answers for every categorical question
	input := strings.Join([]string{
		"/predict", "abc", "1", "1", "2", "90", "1", "2", "2", "2", "2", "1", "1",
	}, "\n") + "\n"
	var out bytes.Buffer

	// When
	err := run(strings.NewReader(input), &out)

	// Then the conversation ends with the churn verdict
	req.NoError(err)
	output := out.String()
	req.True(strings.HasPrefix(output, "Hello!"))
	req.Contains(output, "❌ Please enter a number.")
	req.Contains(output, "  2) One year")
	req.Contains(output, "11. Payment method (PaymentMethod)?")
	req.Contains(output, "The customer is likely to leave. Probability: 92.4%")
}

func TestRun_MissingArtifacts(t *testing.T) {
	t.Setenv("MODEL_PATH", filepath.Join(t.TempDir(), "absent.json"))
	t.Setenv("SCALER_PATH", filepath.Join(t.TempDir(), "absent.json"))

	err := run(strings.NewReader(""), &bytes.Buffer{})

	require.Error(t, err)
}
