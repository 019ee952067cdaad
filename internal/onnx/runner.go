package onnx

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	ort "github.com/shota3506/onnxruntime-purego/onnxruntime"
)

// defaultAPIVersion is the ORT C API level requested when none is set.
const defaultAPIVersion = 23

// RunnerConfig selects the ORT library and session tuning.
type RunnerConfig struct {
	LibraryPath string
	APIVersion  uint32
	// IntraOpThreads bounds the threads one operator may use. 0 leaves the
	// ORT default.
	IntraOpThreads int
}

func (c RunnerConfig) sessionOptions() *ort.SessionOptions {
	return &ort.SessionOptions{IntraOpNumThreads: max(c.IntraOpThreads, 0)}
}

// GraphRunner executes the acoustic graph. Runner is the ORT-backed
// implementation; tests substitute their own.
type GraphRunner interface {
	Run(ctx context.Context, inputs map[string]*Tensor) (map[string]*Tensor, error)
	Close()
}

// Runner owns the ORT runtime, env and session for one Kokoro model file.
type Runner struct {
	meta    Session
	runtime *ort.Runtime
	env     *ort.Env
	session *ort.Session
}

// NewRunner opens meta.Path as an ORT session.
func NewRunner(meta Session, cfg RunnerConfig) (*Runner, error) {
	if cfg.APIVersion == 0 {
		cfg.APIVersion = defaultAPIVersion
	}

	r := &Runner{meta: meta}
	var err error
	if r.runtime, err = ort.NewRuntime(cfg.LibraryPath, cfg.APIVersion); err != nil {
		return nil, fmt.Errorf("load onnx runtime %s: %w", cfg.LibraryPath, err)
	}
	if r.env, err = r.runtime.NewEnv("kokorotts", ort.LoggingLevelWarning); err != nil {
		r.Close()
		return nil, fmt.Errorf("create onnx env: %w", err)
	}
	if r.session, err = r.runtime.NewSession(r.env, meta.Path, cfg.sessionOptions()); err != nil {
		r.Close()
		return nil, fmt.Errorf("open model %s: %w", meta.Path, err)
	}

	return r, nil
}

// Run checks inputs against the model signature, then runs one pass.
func (r *Runner) Run(ctx context.Context, inputs map[string]*Tensor) (map[string]*Tensor, error) {
	if err := checkInputs(r.meta.Inputs, inputs); err != nil {
		return nil, err
	}

	values := make(map[string]*ort.Value, len(inputs))
	defer closeValues(values)
	for name, t := range inputs {
		v, err := toValue(r.runtime, t)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", name, err)
		}
		values[name] = v
	}

	outputs, err := r.session.Run(ctx, values)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", r.meta.Name, err)
	}
	defer closeValues(outputs)

	results := make(map[string]*Tensor, len(outputs))
	for name, v := range outputs {
		t, err := fromValue(v)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", name, err)
		}
		results[name] = t
	}
	return results, nil
}

// Close releases the session, env and runtime. Safe to call repeatedly.
func (r *Runner) Close() {
	if r.session != nil {
		r.session.Close()
		r.session = nil
	}
	if r.env != nil {
		r.env.Close()
		r.env = nil
	}
	if r.runtime != nil {
		_ = r.runtime.Close()
		r.runtime = nil
	}
}

// checkInputs requires exactly the declared inputs with matching dtypes.
func checkInputs(want []NodeInfo, got map[string]*Tensor) error {
	var problems []string
	for _, n := range want {
		t, ok := got[n.Name]
		switch {
		case !ok || t == nil:
			problems = append(problems, "missing "+n.Name)
		case string(t.DType()) != n.DType:
			problems = append(problems, fmt.Sprintf("%s is %s, want %s", n.Name, t.DType(), n.DType))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(got)) {
		if !declared(want, name) {
			problems = append(problems, "unexpected "+name)
		}
	}
	if len(problems) > 0 {
		return errors.New("model inputs: " + strings.Join(problems, "; "))
	}
	return nil
}

func declared(nodes []NodeInfo, name string) bool {
	for _, n := range nodes {
		if n.Name == name {
			return true
		}
	}
	return false
}

func toValue(rt *ort.Runtime, t *Tensor) (*ort.Value, error) {
	switch data := t.Data().(type) {
	case []float32:
		return ort.NewTensorValue(rt, data, t.Shape())
	case []int64:
		return ort.NewTensorValue(rt, data, t.Shape())
	default:
		return nil, fmt.Errorf("unsupported tensor dtype %T", data)
	}
}

func fromValue(v *ort.Value) (*Tensor, error) {
	elem, err := v.GetTensorElementType()
	if err != nil {
		return nil, fmt.Errorf("element type: %w", err)
	}

	switch elem {
	case ort.ONNXTensorElementDataTypeFloat:
		data, shape, err := ort.GetTensorData[float32](v)
		if err != nil {
			return nil, err
		}
		return NewTensor(data, shape)
	case ort.ONNXTensorElementDataTypeInt64:
		data, shape, err := ort.GetTensorData[int64](v)
		if err != nil {
			return nil, err
		}
		return NewTensor(data, shape)
	default:
		return nil, fmt.Errorf("unsupported element type %d", elem)
	}
}

func closeValues(vals map[string]*ort.Value) {
	for _, v := range vals {
		if v != nil {
			v.Close()
		}
	}
}
