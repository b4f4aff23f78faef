// Package discriminator implements the graph-pair similarity model: a stack
// of mean-aggregation message-passing layers over dense node features, a
// graph pooling step, a pair fusion step, and a sigmoid scoring head. The
// forward pass, the reverse pass producing parameter gradients, and weight
// persistence all live here.
package discriminator

import (
	"errors"
	"fmt"
)

// Sentinel errors for model configuration.
var (
	// ErrUnknownModelType indicates a ModelType with no registered architecture.
	ErrUnknownModelType = errors.New("discriminator: unknown model type")

	// ErrUnknownPoolType indicates a PoolType other than sum, mean or max.
	ErrUnknownPoolType = errors.New("discriminator: unknown pool type")

	// ErrUnknownFuseType indicates a FuseType other than abs_diff or concat.
	ErrUnknownFuseType = errors.New("discriminator: unknown fuse type")

	// ErrBadDimensions indicates a non-positive layer count, hidden width or
	// input dimension.
	ErrBadDimensions = errors.New("discriminator: layer count, hidden width and input dimension must be positive")
)

// Pooling and fusion modes accepted by Config.
const (
	PoolSum  = "sum"
	PoolMean = "mean"
	PoolMax  = "max"

	FuseAbsDiff = "abs_diff"
	FuseConcat  = "concat"
)

// ModelTypeGMNet is the graph matching network architecture implemented by
// this package.
const ModelTypeGMNet = "gmnet"

// Config fixes the discriminator architecture. InDim is derived from the
// dataset feature width, not chosen by the user. Seed drives weight
// initialization; equal configs build identical models.
type Config struct {
	ModelType string
	NumLayers int
	Hidden    int
	PoolType  string
	FuseType  string
	InDim     int
	Seed      int64
}

func (c Config) validate() error {
	if c.ModelType != ModelTypeGMNet {
		return fmt.Errorf("%w: %q", ErrUnknownModelType, c.ModelType)
	}
	switch c.PoolType {
	case PoolSum, PoolMean, PoolMax:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPoolType, c.PoolType)
	}
	switch c.FuseType {
	case FuseAbsDiff, FuseConcat:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFuseType, c.FuseType)
	}
	if c.NumLayers < 1 || c.Hidden < 1 || c.InDim < 1 {
		return fmt.Errorf("%w: layers=%d hidden=%d in_dim=%d", ErrBadDimensions, c.NumLayers, c.Hidden, c.InDim)
	}
	return nil
}

// fusedDim returns the width of the fused pair representation.
func (c Config) fusedDim() int {
	if c.FuseType == FuseConcat {
		return 2 * c.Hidden
	}
	return c.Hidden
}
