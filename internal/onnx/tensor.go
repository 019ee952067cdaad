package onnx

import (
	"fmt"
)

type TensorDType string

const (
	DTypeFloat32 TensorDType = "float32"
	DTypeInt64   TensorDType = "int64"
)

// Tensor is a dense row-major tensor owned by Go memory.
type Tensor struct {
	dtype TensorDType
	shape []int64
	data  any
}

// NewTensor copies data into a tensor of the given shape.
func NewTensor[T int64 | float32](data []T, shape []int64) (*Tensor, error) {
	if err := validateShapeAgainstData(shape, len(data)); err != nil {
		return nil, err
	}

	t := &Tensor{shape: append([]int64(nil), shape...)}
	switch d := any(data).(type) {
	case []float32:
		t.dtype = DTypeFloat32
		t.data = append([]float32(nil), d...)
	case []int64:
		t.dtype = DTypeInt64
		t.data = append([]int64(nil), d...)
	}
	return t, nil
}

func (t *Tensor) DType() TensorDType {
	return t.dtype
}

func (t *Tensor) Shape() []int64 {
	return append([]int64(nil), t.shape...)
}

// Data returns the backing slice without copying.
func (t *Tensor) Data() any {
	return t.data
}

// Float32 returns a copy of a float32 tensor's values.
func (t *Tensor) Float32() ([]float32, error) {
	if t == nil {
		return nil, fmt.Errorf("expected float32 tensor, got nil")
	}
	data, ok := t.data.([]float32)
	if !ok {
		return nil, fmt.Errorf("expected float32 tensor, got %s", t.dtype)
	}
	return append([]float32(nil), data...), nil
}

func validateShapeAgainstData(shape []int64, dataLen int) error {
	count, err := elementCount(shape)
	if err != nil {
		return err
	}
	if count != dataLen {
		return fmt.Errorf("shape %v needs %d elements, got %d", shape, count, dataLen)
	}
	return nil
}

func elementCount(shape []int64) (int, error) {
	count := 1
	for _, dim := range shape {
		if dim < 0 {
			return 0, fmt.Errorf("negative dimension %d in shape %v", dim, shape)
		}
		count *= int(dim)
	}
	return count, nil
}
