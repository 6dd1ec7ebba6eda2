package fasta

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("parses multiple records", func(t *testing.T) {
		input := ">ab1 first antibody\nEVQLVESGG\nGLVQPGG\n>ab2\nDIQMTQSP\n"
		records, err := Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "ab1", records[0].ID)
		assert.Equal(t, "first antibody", records[0].Description)
		assert.Equal(t, "EVQLVESGGGLVQPGG", records[0].Sequence)

		assert.Equal(t, "ab2", records[1].ID)
		assert.Empty(t, records[1].Description)
		assert.Equal(t, "DIQMTQSP", records[1].Sequence)
	})

	t.Run("omits records without sequence", func(t *testing.T) {
		input := ">empty\n>ab1\nEVQL\n"
		records, err := Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "ab1", records[0].ID)
	})

	t.Run("uppercases and strips whitespace", func(t *testing.T) {
		input := ">ab1\n  evql vesgg  \n"
		records, err := Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "EVQLVESGG", records[0].Sequence)
	})

	t.Run("empty input yields no records", func(t *testing.T) {
		records, err := Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestWrite(t *testing.T) {
	t.Run("round trips records", func(t *testing.T) {
		in := []Record{
			{ID: "ab1", Description: "humanized", Sequence: "EVQLVESGG"},
			{ID: "ab2", Sequence: "DIQMTQSP"},
		}
		var buf strings.Builder
		require.NoError(t, Write(&buf, in))

		out, err := Parse(strings.NewReader(buf.String()))
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("wraps long sequences at 80 columns", func(t *testing.T) {
		var buf strings.Builder
		require.NoError(t, Write(&buf, []Record{{ID: "long", Sequence: strings.Repeat("A", 200)}}))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.Len(t, lines[1], 80)
		assert.Len(t, lines[2], 80)
		assert.Len(t, lines[3], 40)
	})
}

func TestIterateFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fa")
	b := filepath.Join(dir, "b.fa")
	require.NoError(t, os.WriteFile(a, []byte(">a1\nAAAA\n>a2\nCCCC\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte(">b1\nGGGG\n"), 0644))

	t.Run("concatenates files in order", func(t *testing.T) {
		records, err := IterateFiles([]string{a, b})
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "a1", records[0].ID)
		assert.Equal(t, "a2", records[1].ID)
		assert.Equal(t, "b1", records[2].ID)
	})

	t.Run("fails on missing file", func(t *testing.T) {
		_, err := IterateFiles([]string{filepath.Join(dir, "missing.fa")})
		assert.Error(t, err)
	})
}
