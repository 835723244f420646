package serialization

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/minigrad/internal/tensor"
)

const metadataKey = "__metadata__"

// SafeTensorHeader represents a tensor in the SafeTensors header.
type SafeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// dtypeWidth returns the element size for the dtypes this package reads.
func dtypeWidth(dtype string) (int64, bool) {
	switch dtype {
	case "F64":
		return 8, true
	case "F32":
		return 4, true
	default:
		return 0, false
	}
}

// Write encodes tensors and optional metadata in SafeTensors format.
// Tensors are written in alphabetical order by name.
func Write(w io.Writer, tensors map[string]*tensor.Array, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name, arr := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		if arr == nil {
			return fmt.Errorf("tensor %q is nil", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	var offset int64
	for _, name := range names {
		arr := tensors[name]
		shape := arr.Shape()
		dims := make([]int64, len(shape))
		for i, d := range shape {
			dims[i] = int64(d)
		}
		size := int64(arr.NumElements()) * 8
		header[name] = SafeTensorHeader{
			DType:       "F64",
			Shape:       dims,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	// Pad with spaces so the data section starts 8-byte aligned.
	if rem := len(headerJSON) % 8; rem != 0 {
		headerJSON = append(headerJSON, bytes.Repeat([]byte(" "), 8-rem)...)
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := bw.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, name := range names {
		if err := binary.Write(bw, binary.LittleEndian, tensors[name].Data()); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", name, err)
		}
	}
	return bw.Flush()
}

// Read decodes a SafeTensors stream into arrays and metadata.
func Read(r io.Reader) (map[string]*tensor.Array, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, &ValidationError{
			Kind:    ErrHeaderTooLarge,
			Details: fmt.Sprintf("%d bytes, max %d", headerSize, MaxHeaderSize),
		}
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header: %w", err)
	}

	var metadata map[string]string
	if m, ok := raw[metadataKey]; ok {
		if err := json.Unmarshal(m, &metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		delete(raw, metadataKey)
	}

	headers := make(map[string]SafeTensorHeader, len(raw))
	spans := make([]tensorSpan, 0, len(raw))
	for name, msg := range raw {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		var h SafeTensorHeader
		if err := json.Unmarshal(msg, &h); err != nil {
			return nil, nil, fmt.Errorf("failed to parse tensor %s: %w", name, err)
		}
		headers[name] = h
		spans = append(spans, tensorSpan{
			Name:   name,
			Offset: h.DataOffsets[0],
			Size:   h.DataOffsets[1] - h.DataOffsets[0],
		})
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := validateSpans(spans, int64(len(data))); err != nil {
		return nil, nil, err
	}

	tensors := make(map[string]*tensor.Array, len(headers))
	for name, h := range headers {
		arr, err := decodeTensor(name, h, data)
		if err != nil {
			return nil, nil, err
		}
		tensors[name] = arr
	}
	return tensors, metadata, nil
}

// decodeTensor converts one validated header entry into an Array.
func decodeTensor(name string, h SafeTensorHeader, data []byte) (*tensor.Array, error) {
	width, ok := dtypeWidth(h.DType)
	if !ok {
		return nil, &ValidationError{Kind: ErrUnsupportedDType, Tensor: name, Details: h.DType}
	}

	buf := data[h.DataOffsets[0]:h.DataOffsets[1]]
	limit := int64(len(buf)) / width

	// The element count is bounded by the span while accumulating, so a
	// header with many large dimensions cannot overflow it.
	shape := make(tensor.Shape, len(h.Shape))
	n := int64(1)
	for i, d := range h.Shape {
		if d <= 0 || d > math.MaxInt32 {
			return nil, fmt.Errorf("tensor %s: invalid dimension %d", name, d)
		}
		if n > limit/d {
			return nil, &ValidationError{
				Kind:    ErrOutOfBounds,
				Tensor:  name,
				Details: fmt.Sprintf("shape %v needs more than the %d bytes in its span", h.Shape, len(buf)),
			}
		}
		n *= d
		shape[i] = int(d)
	}
	if int64(len(buf)) != n*width {
		return nil, &ValidationError{
			Kind:    ErrOutOfBounds,
			Tensor:  name,
			Details: fmt.Sprintf("shape %v needs %d bytes, span has %d", shape, n*width, len(buf)),
		}
	}

	values := make([]float64, n)
	for i := range values {
		if width == 8 {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
		} else {
			values[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
		}
	}
	arr, err := tensor.FromSlice(values, shape)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}
	return arr, nil
}

// SaveFile writes tensors to path, replacing any existing file.
func SaveFile(path string, tensors map[string]*tensor.Array, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for checkpoints
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(file, tensors, metadata)
}

// LoadFile reads tensors and metadata from path.
func LoadFile(path string) (map[string]*tensor.Array, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for checkpoints
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return Read(bufio.NewReader(file))
}
