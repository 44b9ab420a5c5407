package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lmdata/internal/tokenizer"
)

func TestEncodeBPE(t *testing.T) {
	tests := []struct {
		name  string
		train string
		test  string
	}{
		{PTB, ptbTrain, ptbTest},
		{WikiText2, wikiTrain, wikiTest},
		{Enwik8, enwik8Data[:80], enwik8Data[90:]},
	}

	tok, err := tokenizer.NewTikToken(tokenizer.EncodingCL100kBase)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCorpusServer(t)
			splits, err := srv.loader(t).EncodeBPE(context.Background(), tt.name, "")
			require.NoError(t, err)

			assert.Equal(t, tokenizer.EncodingCL100kBase, splits.Encoding)
			assert.Equal(t, tok.VocabSize(), splits.VocabSize)

			train, err := tok.Decode(splits.Train)
			require.NoError(t, err)
			assert.Equal(t, tt.train, train)

			test, err := tok.Decode(splits.Test)
			require.NoError(t, err)
			assert.Equal(t, tt.test, test)
		})
	}
}

func TestEncodeBPE_Errors(t *testing.T) {
	srv := newCorpusServer(t)
	l := srv.loader(t)

	_, err := l.EncodeBPE(context.Background(), "imdb", "")
	assert.ErrorIs(t, err, ErrUnknownDataset)

	_, err = l.EncodeBPE(context.Background(), PTB, "no_such_encoding")
	assert.Error(t, err)
}
