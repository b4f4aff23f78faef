// Package trainer provides high-level orchestration for discriminator
// training: it builds triple-sampling datasets from a named TU collection,
// owns the model and optimizer for the run, drives the epoch loop, persists
// checkpoints during the final epochs, and appends validation accuracy to
// the run log.
package trainer
