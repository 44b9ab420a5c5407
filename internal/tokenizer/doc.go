// Package tokenizer turns corpus text into integer token streams.
//
// Three tokenizers share the Tokenizer interface:
//   - WordTokenizer: space-separated words with an <eos> marker after each line
//     (PTB, WikiText)
//   - ByteTokenizer: one token per byte value (enwik8)
//   - TikToken: OpenAI BPE encodings (cl100k_base, p50k_base, r50k_base),
//     loaded from embedded rank files so no network access is needed
//
// Word and byte vocabularies are built from a training split with
// VocabBuilder. Token indices are assigned in ascending byte order of the
// tokens, so the same corpus always yields the same vocabulary.
//
// Example usage:
//
//	b := tokenizer.NewVocabBuilder()
//	for _, line := range trainLines {
//	    b.AddLine(line)
//	}
//	b.Add(tokenizer.EOS)
//	tok := tokenizer.NewWordTokenizer(b.Build())
//
//	ids, err := tok.EncodeLine("the cat sat", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
package tokenizer
