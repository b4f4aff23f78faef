// Package main provides the evaluation entry point for the graph-pair
// discriminator: it restores a checkpoint and reports validation accuracy
// on a TU-format dataset without training.
package main
