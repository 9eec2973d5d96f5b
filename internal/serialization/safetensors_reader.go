package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/lbtheory/isoortho/internal/tensor"
)

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end]
}

// SafeTensorsReader reads SafeTensors files written by SafeTensorsWriter.
type SafeTensorsReader struct {
	file       *os.File
	metadata   map[string]string
	tensors    map[string]SafeTensorInfo
	dataOffset int64 // Offset where tensor data starts
	dataSize   int64
}

// NewSafeTensorsReader opens path and validates its header.
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for imports
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r, err := newReader(file)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, err
	}
	return r, nil
}

func newReader(file *os.File) (*SafeTensorsReader, error) {
	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	r := &SafeTensorsReader{
		file:       file,
		metadata:   map[string]string{},
		tensors:    make(map[string]SafeTensorInfo, len(rawMap)),
		dataOffset: int64(8 + headerSize), //nolint:gosec // G115: bounded by MaxHeaderSize
	}

	spans := make([]tensorSpan, 0, len(rawMap))
	for key, value := range rawMap {
		if key == "__metadata__" {
			if err := json.Unmarshal(value, &r.metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
			continue
		}
		if err := ValidateTensorName(key); err != nil {
			return nil, err
		}

		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		if info.DType != DTypeI64 {
			return nil, fmt.Errorf("%w: tensor %s has dtype %s", ErrUnsupportedDType, key, info.DType)
		}
		r.tensors[key] = info
		spans = append(spans, tensorSpan{
			Name:   key,
			Offset: info.DataOffsets[0],
			Size:   info.DataOffsets[1] - info.DataOffsets[0],
		})
	}

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	r.dataSize = stat.Size() - r.dataOffset
	if err := validateSpans(spans, r.dataSize); err != nil {
		return nil, err
	}

	return r, nil
}

// Close closes the SafeTensors file.
func (r *SafeTensorsReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Metadata returns a copy of the header metadata.
func (r *SafeTensorsReader) Metadata() map[string]string {
	out := make(map[string]string, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

// TensorNames returns the tensor names in alphabetical order.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.tensors))
	for name := range r.tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VerifyChecksum checks the data section against the stored checksum.
// Files without a checksum pass.
func (r *SafeTensorsReader) VerifyChecksum() error {
	stored, ok := r.metadata[ChecksumKey]
	if !ok {
		return nil
	}
	data := make([]byte, r.dataSize)
	if _, err := r.file.ReadAt(data, r.dataOffset); err != nil {
		return fmt.Errorf("failed to read data section: %w", err)
	}
	return ValidateChecksum(data, stored)
}

// LoadTensor reads the named tensor.
func (r *SafeTensorsReader) LoadTensor(name string) (*tensor.Tensor, error) {
	info, ok := r.tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
	}

	shape := tensor.Shape(info.Shape)
	size := info.DataOffsets[1] - info.DataOffsets[0]
	if size != int64(8*shape.NumElements()) {
		return nil, fmt.Errorf("tensor %s: %d bytes for shape %v", name, size, shape)
	}

	data := make([]int64, shape.NumElements())
	section := io.NewSectionReader(r.file, r.dataOffset+info.DataOffsets[0], size)
	if err := binary.Read(section, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("failed to read tensor %s: %w", name, err)
	}

	t, err := tensor.FromSlice(data, shape)
	if err != nil {
		return nil, fmt.Errorf("invalid shape for tensor %s: %w", name, err)
	}
	return t, nil
}

// ReadSafeTensors loads every tensor in path after verifying its checksum.
func ReadSafeTensors(path string) (map[string]*tensor.Tensor, map[string]string, error) {
	r, err := NewSafeTensorsReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	if err := r.VerifyChecksum(); err != nil {
		return nil, nil, err
	}

	out := make(map[string]*tensor.Tensor, len(r.tensors))
	for _, name := range r.TensorNames() {
		t, err := r.LoadTensor(name)
		if err != nil {
			return nil, nil, err
		}
		out[name] = t
	}
	return out, r.Metadata(), nil
}
