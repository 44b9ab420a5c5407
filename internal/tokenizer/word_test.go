package tokenizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWordTokenizer(t *testing.T, lines ...string) *WordTokenizer {
	t.Helper()

	b := NewVocabBuilder(nil)
	for _, l := range lines {
		b.AddLine(l)
	}
	b.Add(EOS)

	tok, err := NewWordTokenizer(b.Build(), nil)
	require.NoError(t, err)
	return tok
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"ptb style", " the cat sat \n", []string{"the", "cat", "sat"}},
		{"empty", "\n", []string{""}},
		{"double space", "a  b", []string{"a", "", "b"}},
		{"tabs trimmed", "\ta b\t", []string{"a", "b"}},
		{"separators trimmed", "\x1ca b\x1f\n", []string{"a", "b"}},
		{"no-break space trimmed", "\u00a0a\u00a0", []string{"a"}},
		{"inner separator kept", "a\x1db", []string{"a\x1db"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestNormalizer(t *testing.T) {
	f, err := Normalizer("")
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = Normalizer("NFKC")
	require.NoError(t, err)
	assert.Equal(t, "fi", f("ﬁ"))

	_, err = Normalizer("nfd-ish")
	assert.Error(t, err)
}

func TestWordTokenizer_EncodeLine(t *testing.T) {
	tok := newTestWordTokenizer(t, "the cat sat", "on the mat")
	eos := uint32(tok.EosToken())

	tests := []struct {
		name string
		line string
	}{
		{"full line", "the cat sat on the mat"},
		{"single word", "cat"},
		{"padded", "  on the mat \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := tok.EncodeLine(tt.line, nil)
			require.NoError(t, err)
			require.Len(t, ids, len(SplitLine(tt.line))+1)
			assert.Equal(t, eos, ids[len(ids)-1])
		})
	}
}

func TestWordTokenizer_EmptyLineNeedsEmptyToken(t *testing.T) {
	withEmpty := newTestWordTokenizer(t, "a b", "")
	ids, err := withEmpty.EncodeLine("", nil)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	withoutEmpty := newTestWordTokenizer(t, "a b")
	_, err = withoutEmpty.EncodeLine("", nil)
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestWordTokenizer_UnknownToken(t *testing.T) {
	tok := newTestWordTokenizer(t, "the cat sat")

	_, err := tok.Encode("the cat sat\nthe dog sat\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownToken))

	var ute *UnknownTokenError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "dog", ute.Token)
	assert.Equal(t, 2, ute.Line)
}

func TestWordTokenizer_Roundtrip(t *testing.T) {
	tok := newTestWordTokenizer(t, "the cat sat", "on the mat")

	ids, err := tok.Encode("the cat sat\non the mat\n")
	require.NoError(t, err)
	assert.Len(t, ids, 8)

	text, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "the cat sat\non the mat\n", text)

	_, err = tok.Decode([]uint32{999})
	assert.Error(t, err)
}

func TestWordTokenizer_RequiresEOS(t *testing.T) {
	b := NewVocabBuilder(nil)
	b.AddLine("no marker here")

	_, err := NewWordTokenizer(b.Build(), nil)
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestWordTokenizer_EmptyText(t *testing.T) {
	tok := newTestWordTokenizer(t, "x")

	ids, err := tok.Encode("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
