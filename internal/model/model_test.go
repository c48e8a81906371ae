package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitOptions(t *testing.T) {
	require.Equal(t, []string{"Thin", "Medium", "Thick"}, SplitOptions("Thin| Medium |Thick||"))
	require.Empty(t, SplitOptions(""))
}

func TestParseJobStatus(t *testing.T) {
	require.Equal(t, JobSucceeded, ParseJobStatus("SUCCEEDED"))
	require.Equal(t, JobFailed, ParseJobStatus("failed"))
	require.Equal(t, JobPending, ParseJobStatus("processing"))
	require.Equal(t, JobPending, ParseJobStatus(""))
}

func TestVizQuestion_TextFor(t *testing.T) {
	q := VizQuestion{Text: map[string]string{"en": "How much hair loss?", "tr": "Ne kadar saç kaybı?"}}
	require.Equal(t, "Ne kadar saç kaybı?", q.TextFor("tr"))
	require.Equal(t, "How much hair loss?", q.TextFor("th"))
}

func TestStepString(t *testing.T) {
	require.Equal(t, "processing", StepProcessing.String())
	require.Equal(t, "unknown", Step(9).String())
}
