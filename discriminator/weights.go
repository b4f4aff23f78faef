package discriminator

import (
	"compress/zlib"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrCheckpointMismatch indicates a weight file written by a model with a
// different architecture.
var ErrCheckpointMismatch = errors.New("discriminator: checkpoint does not match model architecture")

// checkpoint is the on-disk weight layout: the architecture fields guard
// against loading into a mismatched model, Params holds the matrices in the
// params() order.
type checkpoint struct {
	ModelType string      `json:"model_type"`
	NumLayers int         `json:"num_layers"`
	Hidden    int         `json:"hidden"`
	PoolType  string      `json:"pool_type"`
	FuseType  string      `json:"fuse_type"`
	InDim     int         `json:"in_dim"`
	Shapes    [][2]int    `json:"shapes"`
	Params    [][]float64 `json:"params"`
}

// SaveFile writes all model weights to name as zlib-compressed JSON.
func (m *Model) SaveFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("discriminator: %w", err)
	}
	zw := zlib.NewWriter(f)

	ck := checkpoint{
		ModelType: m.cfg.ModelType,
		NumLayers: m.cfg.NumLayers,
		Hidden:    m.cfg.Hidden,
		PoolType:  m.cfg.PoolType,
		FuseType:  m.cfg.FuseType,
		InDim:     m.cfg.InDim,
	}
	for _, p := range m.params() {
		r, c := p.Dims()
		ck.Shapes = append(ck.Shapes, [2]int{r, c})
		data := make([]float64, r*c)
		copy(data, p.RawMatrix().Data)
		ck.Params = append(ck.Params, data)
	}

	if err := json.NewEncoder(zw).Encode(&ck); err != nil {
		f.Close()
		return fmt.Errorf("discriminator: encoding %s: %w", name, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("discriminator: flushing %s: %w", name, err)
	}
	return f.Close()
}

// LoadFile replaces the model weights with the contents of a file written by
// SaveFile. The file's architecture must match the model's.
func (m *Model) LoadFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("discriminator: %w", err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return fmt.Errorf("discriminator: opening %s: %w", name, err)
	}
	defer zr.Close()

	var ck checkpoint
	if err := json.NewDecoder(zr).Decode(&ck); err != nil {
		return fmt.Errorf("discriminator: decoding %s: %w", name, err)
	}
	if ck.ModelType != m.cfg.ModelType || ck.NumLayers != m.cfg.NumLayers ||
		ck.Hidden != m.cfg.Hidden || ck.PoolType != m.cfg.PoolType ||
		ck.FuseType != m.cfg.FuseType || ck.InDim != m.cfg.InDim {
		return fmt.Errorf("%w: %s", ErrCheckpointMismatch, name)
	}

	params := m.params()
	if len(ck.Params) != len(params) || len(ck.Shapes) != len(params) {
		return fmt.Errorf("%w: %s holds %d matrices, model has %d", ErrCheckpointMismatch, name, len(ck.Params), len(params))
	}
	for i, p := range params {
		r, c := p.Dims()
		if ck.Shapes[i] != [2]int{r, c} || len(ck.Params[i]) != r*c {
			return fmt.Errorf("%w: matrix %d has shape %v, want %dx%d", ErrCheckpointMismatch, i, ck.Shapes[i], r, c)
		}
	}
	for i, p := range params {
		copy(p.RawMatrix().Data, ck.Params[i])
	}
	return nil
}
