package trainer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/auggraph/auggraph/datasets"
	"github.com/auggraph/auggraph/datasets/tu"
	"github.com/auggraph/auggraph/device"
	"github.com/auggraph/auggraph/discriminator"
	"github.com/auggraph/auggraph/graph"
	"github.com/auggraph/auggraph/learning"
)

// ErrUnknownDataset indicates a dataset name with no registered feature
// policy.
var ErrUnknownDataset = errors.New("trainer: no feature policy registered for dataset")

// Model is the slice of the discriminator the Runner drives: pair scoring,
// one optimizer step per batch, and weight persistence.
type Model interface {
	Score(a, b *graph.Graph) float64
	TrainBatch(batch []datasets.Triple, opt *learning.Adam) float64
	SaveFile(name string) error
	LoadFile(name string) error
}

// Runner owns the configuration, datasets, model and optimizer state of one
// training run. Nothing else mutates the model while a run is in progress.
type Runner struct {
	cfg      Config
	modelCfg discriminator.Config
	model    Model
	dev      device.Device
	dataName string

	trainSet *datasets.TripleSet
	valSet   *datasets.TripleSet
}

// New loads the named dataset from under dataRoot, builds the triple sets
// according to the registered feature policy, derives the input feature
// dimension from the first triple's anchor, and constructs the model.
// Failure modes: ErrUnknownDataset, loader errors, and the triple-set
// construction errors for unsampleable label structure.
func New(dataRoot, dataName string, cfg Config) (*Runner, error) {
	pol, ok := policies[dataName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, dataName)
	}
	graphs, err := tu.Load(dataRoot, dataName)
	if err != nil {
		return nil, err
	}
	var tr datasets.Transform
	if pol == PolicyDegreeFeatures {
		tr = datasets.NewDegreeTransform(graphs)
	}
	trainSet, err := datasets.New(graphs, tr, datasets.WithSeed(cfg.Seed))
	if err != nil {
		return nil, err
	}
	valSet, err := datasets.New(graphs, tr, datasets.WithSeed(cfg.Seed+1))
	if err != nil {
		return nil, err
	}

	inDim := trainSet.At(0).Anchor.FeatureDim()
	modelCfg := discriminator.Config{
		ModelType: cfg.ModelType,
		NumLayers: cfg.NumLayers,
		Hidden:    cfg.Hidden,
		PoolType:  cfg.PoolType,
		FuseType:  cfg.FuseType,
		InDim:     inDim,
		Seed:      cfg.Seed,
	}
	model, err := discriminator.New(modelCfg)
	if err != nil {
		return nil, err
	}
	r := NewFromSets(dataName, cfg, model, trainSet, valSet)
	r.modelCfg = modelCfg
	return r, nil
}

// NewFromSets wires a Runner over pre-built triple sets and a model, for
// callers that construct datasets themselves. The device is selected here
// and stays fixed for the run.
func NewFromSets(dataName string, cfg Config, model Model, trainSet, valSet *datasets.TripleSet) *Runner {
	return &Runner{
		cfg: cfg,
		modelCfg: discriminator.Config{
			ModelType: cfg.ModelType,
			NumLayers: cfg.NumLayers,
			Hidden:    cfg.Hidden,
			PoolType:  cfg.PoolType,
			FuseType:  cfg.FuseType,
			Seed:      cfg.Seed,
		},
		model:    model,
		dev:      device.Detect(),
		dataName: dataName,
		trainSet: trainSet,
		valSet:   valSet,
	}
}

// ValidationSet returns the validation triple set of the run.
func (r *Runner) ValidationSet() *datasets.TripleSet {
	return r.valSet
}

// Device returns the compute device the run is pinned to.
func (r *Runner) Device() device.Device {
	return r.dev
}

// LoadCheckpoint replaces the model weights with a previously saved
// checkpoint.
func (r *Runner) LoadCheckpoint(name string) error {
	return r.model.LoadFile(name)
}

// TrainTest runs the full training loop. Per epoch it draws shuffled
// mini-batches of triples and steps the optimizer, saves a checkpoint when
// the epoch falls in the final numSave epochs, evaluates the validation set,
// and appends the accuracy line to the run log and stdout. Checkpoints land
// in <outRoot>/<dataset>/<modelType>/<epoch>.ckpt, the log in
// <outRoot>/<dataset>/<logName>. The first error aborts the run; whatever
// was written so far stays on disk.
func (r *Runner) TrainTest(outRoot string, numSave int, logName string) error {
	outPath := filepath.Join(outRoot, r.dataName)
	if err := os.MkdirAll(outPath, 0o755); err != nil {
		return fmt.Errorf("trainer: %w", err)
	}
	modelDir := filepath.Join(outPath, r.cfg.ModelType)
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return fmt.Errorf("trainer: %w", err)
	}
	logPath := filepath.Join(outPath, logName)

	header := fmt.Sprintf("Discriminator classification results for dataset %s with model parameters %+v\n", r.dataName, r.modelCfg)
	if err := appendLine(logPath, header); err != nil {
		return err
	}

	opt := learning.NewAdam(r.cfg.LearningRate, r.cfg.WeightDecay)
	trainLoader := datasets.NewLoader(r.trainSet, r.cfg.BatchSize, true, r.dev.Workers)

	for epoch := 0; epoch < r.cfg.MaxEpochs; epoch++ {
		err := trainLoader.Epoch(func(batch []datasets.Triple) error {
			r.model.TrainBatch(batch, opt)
			return nil
		})
		if err != nil {
			return err
		}

		if epoch >= r.cfg.MaxEpochs-numSave {
			name := filepath.Join(modelDir, fmt.Sprintf("%04d.ckpt", epoch))
			if err := r.model.SaveFile(name); err != nil {
				return err
			}
		}

		acc, posAcc, negAcc, err := r.Evaluate(r.valSet)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("Epoch %v, validation accuracy %v, accuracy of positive samples %v, accuracy of negative samples %v", epoch, acc, posAcc, negAcc)
		fmt.Println(line)
		if err := appendLine(logPath, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate scores the whole set without touching model parameters or logs.
// An anchor-positive pair counts as correct when its score is strictly above
// 0.5, an anchor-negative pair when strictly below; a score of exactly 0.5
// counts for neither. The overall accuracy divides by twice the set size,
// the per-side accuracies by the set size alone, reproducing the reference
// convention.
func (r *Runner) Evaluate(set *datasets.TripleSet) (acc, posAcc, negAcc float64, err error) {
	loader := datasets.NewLoader(set, r.cfg.BatchSize, true, 1)
	var posCorrect, negCorrect int
	err = loader.Epoch(func(batch []datasets.Triple) error {
		for _, t := range batch {
			if r.model.Score(t.Anchor, t.Pos) > 0.5 {
				posCorrect++
			}
			if r.model.Score(t.Anchor, t.Neg) < 0.5 {
				negCorrect++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, 0, err
	}
	n := float64(set.Len())
	return float64(posCorrect+negCorrect) / (2 * n), float64(posCorrect) / n, float64(negCorrect) / n, nil
}

// appendLine opens the log, appends one record and closes it again, so the
// file is never held open across an epoch.
func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("trainer: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("trainer: writing %s: %w", path, err)
	}
	return f.Close()
}
