// Package main provides the training entry point for the graph-pair
// discriminator: it loads a TU-format dataset, trains the model over triple
// batches, checkpoints the final epochs, and logs validation accuracy per
// epoch.
package main
