package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazlauskas/bendrija-ingest/constants"
)

func TestRunChainPrefersFirstNonEmpty(t *testing.T) {
	chain := []Extractor{
		NewStatementTextExtractor(nil),
		NewTabularRowsExtractor(nil),
	}

	t.Run("text input hits the regex extractor", func(t *testing.T) {
		in := Input{Text: sampleChunk, PeriodMonth: "2024-01"}
		slips, source, err := RunChain(context.Background(), chain, in)
		require.NoError(t, err)
		require.Len(t, slips, 1)
		assert.Equal(t, constants.SourceRegex, source)
		assert.Equal(t, constants.SourceRegex, slips[0].Source)
	})

	t.Run("rows input falls through to tabular", func(t *testing.T) {
		in := Input{
			Rows:        [][]string{{"Butas", "Suma"}, {"04", "9,99"}},
			PeriodMonth: "2024-03",
		}
		slips, source, err := RunChain(context.Background(), chain, in)
		require.NoError(t, err)
		require.Len(t, slips, 1)
		assert.Equal(t, constants.SourceTabular, source)
		assert.Equal(t, "2024-03", slips[0].PeriodMonth)
	})

	t.Run("nothing extractable", func(t *testing.T) {
		slips, source, err := RunChain(context.Background(), chain, Input{Text: "nieko panašaus į sąskaitą"})
		require.NoError(t, err)
		assert.Empty(t, slips)
		assert.Empty(t, string(source))
	})
}

func TestStatementTextExtractorFillsPeriodFallback(t *testing.T) {
	chunk := "Serija: SF Nr. 3\nObj.adresas: Taikos g. 5-09\nMOKĖTINA SUMA, €: 2,00"
	slips, err := NewStatementTextExtractor(nil).Attempt(context.Background(), Input{Text: chunk, PeriodMonth: "2024-06"})
	require.NoError(t, err)
	require.Len(t, slips, 1)
	assert.Equal(t, "2024-06", slips[0].PeriodMonth)
}
