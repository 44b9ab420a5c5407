// Package corpus downloads, caches and encodes language-modeling corpora.
//
// Four datasets are supported:
//   - enwik8: first 10^8 bytes of an English Wikipedia dump, byte-level
//   - ptb: Penn Treebank (Mikolov's preprocessing), word-level
//   - wikitext2, wikitext103: WikiText-2 and WikiText-103, word-level
//
// A Loader keeps raw corpus files in a cache directory:
//
//	{root}/enwik8.zip
//	{root}/ptb/ptb.{train,valid,test}.txt
//	{root}/wikitext-{2,103}/wiki.{train,valid,test}.tokens
//
// Missing files are fetched on first use. The vocabulary is built from the
// training split only and every split is encoded against it; a token that
// appears only in validation or test data is an error. Vocabulary indices
// follow the sorted order of the tokens, so results are reproducible.
//
// Example usage:
//
//	l, err := corpus.NewLoader(corpus.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ds, err := l.Load(ctx, "ptb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ds.Vocab.Len()) // 10000
package corpus
