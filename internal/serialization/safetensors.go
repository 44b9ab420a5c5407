package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

const (
	// DTypeU32 is the SafeTensors dtype of encoded token ids.
	DTypeU32 = "U32"

	metadataKey    = "__metadata__"
	maxHeaderSize  = 100 * 1024 * 1024
	headerAlign    = 8
	bytesPerUint32 = 4
	maxPrealloc    = 1 << 20
)

// TensorHeader represents a tensor in the SafeTensors header.
type TensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// File is the decoded content of a SafeTensors file of U32 arrays.
type File struct {
	Metadata map[string]string
	Arrays   map[string][]uint32
}

// WriteSafeTensors writes arrays as one-dimensional U32 tensors.
//
// Tensors are written in alphabetical order by name.
func WriteSafeTensors(path string, arrays map[string][]uint32, metadata map[string]string) error {
	//nolint:gosec // G304: output path is chosen by the caller.
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Encode(f, arrays, metadata); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes arrays in SafeTensors format to w.
func Encode(w io.Writer, arrays map[string][]uint32, metadata map[string]string) error {
	names := make([]string, 0, len(arrays))
	for name := range arrays {
		if name == metadataKey {
			return &ValidationError{Tensor: name, Details: "reserved name", Err: ErrInvalidHeader}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]interface{}, len(names)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	var offset int64
	for _, name := range names {
		size := int64(len(arrays[name])) * bytesPerUint32
		header[name] = TensorHeader{
			DType:       DTypeU32,
			Shape:       []int64{int64(len(arrays[name]))},
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	for len(headerJSON)%headerAlign != 0 {
		headerJSON = append(headerJSON, ' ')
	}

	bw := bufio.NewWriterSize(w, 1<<20)
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := bw.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var buf [bytesPerUint32]byte
	for _, name := range names {
		for _, v := range arrays[name] {
			binary.LittleEndian.PutUint32(buf[:], v)
			if _, err := bw.Write(buf[:]); err != nil {
				return fmt.Errorf("failed to write tensor %s: %w", name, err)
			}
		}
	}

	return bw.Flush()
}

// ReadSafeTensors reads a file written by WriteSafeTensors.
func ReadSafeTensors(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading exports.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Decode(bufio.NewReaderSize(f, 1<<20))
}

// Decode reads SafeTensors U32 arrays from r.
//
//nolint:gocognit,cyclop // Header validation checks each tensor entry in turn.
func Decode(r io.Reader) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > maxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	out := &File{Arrays: make(map[string][]uint32, len(raw))}
	if m, ok := raw[metadataKey]; ok {
		if err := json.Unmarshal(m, &out.Metadata); err != nil {
			return nil, fmt.Errorf("%w: metadata: %w", ErrInvalidHeader, err)
		}
		delete(raw, metadataKey)
	}

	// Data is laid out by offset; read tensors in that order.
	type entry struct {
		name string
		info TensorHeader
	}
	entries := make([]entry, 0, len(raw))
	for name, msg := range raw {
		var info TensorHeader
		if err := json.Unmarshal(msg, &info); err != nil {
			return nil, &ValidationError{Tensor: name, Details: err.Error(), Err: ErrInvalidHeader}
		}
		if info.DType != DTypeU32 {
			return nil, &ValidationError{Tensor: name, Details: info.DType, Err: ErrUnsupportedDType}
		}
		if len(info.Shape) != 1 || info.Shape[0] < 0 {
			return nil, &ValidationError{Tensor: name, Details: fmt.Sprintf("shape %v is not one-dimensional", info.Shape), Err: ErrInvalidHeader}
		}
		if info.Shape[0] > math.MaxInt64/bytesPerUint32 {
			return nil, &ValidationError{Tensor: name, Details: fmt.Sprintf("shape %v is too large", info.Shape), Err: ErrOutOfBounds}
		}
		if info.DataOffsets[1]-info.DataOffsets[0] != info.Shape[0]*bytesPerUint32 {
			return nil, &ValidationError{Tensor: name, Details: "data offsets do not match shape", Err: ErrOutOfBounds}
		}
		entries = append(entries, entry{name, info})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].info.DataOffsets[0] < entries[j].info.DataOffsets[0]
	})

	var pos int64
	buf := make([]byte, 1<<16)
	for _, e := range entries {
		start, end := e.info.DataOffsets[0], e.info.DataOffsets[1]
		if start < pos {
			return nil, &ValidationError{Tensor: e.name, Details: fmt.Sprintf("starts at %d before %d", start, pos), Err: ErrOffsetOverlap}
		}
		if _, err := io.CopyN(io.Discard, r, start-pos); err != nil {
			return nil, &ValidationError{Tensor: e.name, Details: err.Error(), Err: ErrOutOfBounds}
		}

		// The header is untrusted; append grows past this as the data arrives.
		values := make([]uint32, 0, min(e.info.Shape[0], maxPrealloc))
		for remaining := end - start; remaining > 0; {
			n := min(remaining, int64(len(buf)))
			if _, err := io.ReadFull(r, buf[:n]); err != nil {
				return nil, &ValidationError{Tensor: e.name, Details: err.Error(), Err: ErrOutOfBounds}
			}
			for i := int64(0); i < n; i += bytesPerUint32 {
				values = append(values, binary.LittleEndian.Uint32(buf[i:]))
			}
			remaining -= n
		}

		out.Arrays[e.name] = values
		pos = end
	}

	return out, nil
}
