// Package serialization writes encoded corpus splits as SafeTensors files.
//
// Each split is stored as a one-dimensional U32 tensor:
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON, space-padded to a multiple of 8 bytes]
//	  [Tensor data: little-endian uint32 values, tensors in name order]
//
// String metadata (dataset name, vocabulary JSON) lives in the header's
// "__metadata__" entry, so the files load directly with the safetensors
// Python package.
//
// Example usage:
//
//	arrays := map[string][]uint32{"train": train, "valid": valid, "test": test}
//	if err := serialization.WriteSafeTensors("ptb.safetensors", arrays, meta); err != nil {
//	    log.Fatal(err)
//	}
//
//	f, err := serialization.ReadSafeTensors("ptb.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	train := f.Arrays["train"]
package serialization
