package onnx

import (
	"reflect"
	"testing"
)

func TestNewTensor(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (*Tensor, error)
		dtype   TensorDType
		shape   []int64
		wantErr bool
	}{
		{
			name:  "int64 ids",
			build: func() (*Tensor, error) { return NewTensor([]int64{0, 5, 0}, []int64{1, 3}) },
			dtype: DTypeInt64,
			shape: []int64{1, 3},
		},
		{
			name:  "float32 scalar vector",
			build: func() (*Tensor, error) { return NewTensor([]float32{1}, []int64{1}) },
			dtype: DTypeFloat32,
			shape: []int64{1},
		},
		{
			name:    "shape mismatch",
			build:   func() (*Tensor, error) { return NewTensor([]float32{1, 2}, []int64{1, 3}) },
			wantErr: true,
		},
		{
			name:    "negative dimension",
			build:   func() (*Tensor, error) { return NewTensor([]int64{}, []int64{-1}) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.build()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTensor: %v", err)
			}
			if got.DType() != tt.dtype {
				t.Errorf("DType = %s, want %s", got.DType(), tt.dtype)
			}
			if !reflect.DeepEqual(got.Shape(), tt.shape) {
				t.Errorf("Shape = %v, want %v", got.Shape(), tt.shape)
			}
		})
	}
}

func TestTensorCopiesInput(t *testing.T) {
	in := []float32{1, 2}
	tensor, err := NewTensor(in, []int64{2})
	if err != nil {
		t.Fatal(err)
	}
	in[0] = 9

	out, err := tensor.Float32()
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 1 {
		t.Errorf("tensor aliased input slice: %v", out)
	}
}

func TestTensorFloat32WrongType(t *testing.T) {
	tensor, err := NewTensor([]int64{1}, []int64{1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tensor.Float32(); err == nil {
		t.Error("expected error for int64 tensor")
	}

	var nilTensor *Tensor
	if _, err := nilTensor.Float32(); err == nil {
		t.Error("expected error for nil tensor")
	}
}
