package corpus

import (
	"encoding/json"
	"fmt"

	"github.com/born-ml/lmdata/internal/serialization"
	"github.com/born-ml/lmdata/internal/tokenizer"
)

// Metadata keys of exported files.
const (
	metaFormat  = "format"
	metaDataset = "dataset"
	metaVocab   = "vocab"

	exportFormat = "lmdata/v1"
)

// Export writes ds to path as SafeTensors: U32 tensors "train", "valid" and
// "test", with the dataset name and vocabulary in the header metadata.
func Export(ds *Dataset, path string) error {
	vocab, err := json.Marshal(ds.Vocab)
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}

	arrays := map[string][]uint32{
		SplitTrain: ds.Train,
		SplitValid: ds.Valid,
		SplitTest:  ds.Test,
	}
	meta := map[string]string{
		metaFormat:  exportFormat,
		metaDataset: ds.Name,
		metaVocab:   string(vocab),
	}

	if err := serialization.WriteSafeTensors(path, arrays, meta); err != nil {
		return fmt.Errorf("failed to export %s: %w", ds.Name, err)
	}
	return nil
}

// Import reads a dataset written by Export.
func Import(path string) (*Dataset, error) {
	f, err := serialization.ReadSafeTensors(path)
	if err != nil {
		return nil, err
	}

	if got := f.Metadata[metaFormat]; got != exportFormat {
		return nil, fmt.Errorf("%s: unsupported export format %q", path, got)
	}

	var vocab tokenizer.Vocabulary
	if err := json.Unmarshal([]byte(f.Metadata[metaVocab]), &vocab); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ds := &Dataset{
		Name:  f.Metadata[metaDataset],
		Vocab: &vocab,
		Train: f.Arrays[SplitTrain],
		Valid: f.Arrays[SplitValid],
		Test:  f.Arrays[SplitTest],
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
