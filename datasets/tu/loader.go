// Package tu loads labeled graph collections stored in the TU benchmark
// layout: a directory per dataset holding <name>_A.txt (one "i, j" edge per
// line, node ids global and 1-based), <name>_graph_indicator.txt (one graph
// id per node), <name>_graph_labels.txt (one class label per graph), and the
// optional <name>_node_labels.txt / <name>_node_attributes.txt feature files.
package tu

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/auggraph/auggraph/graph"
)

// ErrMalformed indicates a dataset file that does not follow the TU layout.
var ErrMalformed = errors.New("tu: malformed dataset file")

// Load reads the dataset called name from under root. Files are looked up in
// <root>/<name>/ first and <root>/<name>/raw/ second, matching the layout
// benchmark downloaders leave behind. Node features are the attribute
// columns followed by a one-hot encoding of the node labels; when the
// dataset ships neither, the returned graphs carry no features.
func Load(root, name string) ([]*graph.Graph, error) {
	dir, err := findDir(root, name)
	if err != nil {
		return nil, err
	}

	indicator, err := readInts(filepath.Join(dir, name+"_graph_indicator.txt"))
	if err != nil {
		return nil, err
	}
	graphLabels, err := readInts(filepath.Join(dir, name+"_graph_labels.txt"))
	if err != nil {
		return nil, err
	}
	if len(indicator) == 0 || len(graphLabels) == 0 {
		return nil, fmt.Errorf("%w: dataset %s is empty", ErrMalformed, name)
	}

	numGraphs := len(graphLabels)
	graphOf := make([]int, len(indicator)) // node -> graph, zero-based
	localOf := make([]int, len(indicator)) // node -> index within its graph
	sizes := make([]int, numGraphs)
	for node, gid := range indicator {
		if gid < 1 || gid > numGraphs {
			return nil, fmt.Errorf("%w: graph indicator %d out of range at node %d", ErrMalformed, gid, node+1)
		}
		graphOf[node] = gid - 1
		localOf[node] = sizes[gid-1]
		sizes[gid-1]++
	}
	for i, n := range sizes {
		if n == 0 {
			return nil, fmt.Errorf("%w: graph %d has no nodes", ErrMalformed, i+1)
		}
	}

	edges, err := readEdges(filepath.Join(dir, name+"_A.txt"), graphOf, localOf)
	if err != nil {
		return nil, err
	}

	feats, err := readFeatures(dir, name, graphOf, localOf, sizes)
	if err != nil {
		return nil, err
	}

	out := make([]*graph.Graph, numGraphs)
	for i := range out {
		g, err := graph.New(sizes[i], edges[i], feats[i], graphLabels[i])
		if err != nil {
			return nil, fmt.Errorf("tu: graph %d of %s: %w", i+1, name, err)
		}
		out[i] = g
	}
	return out, nil
}

// findDir locates the dataset directory, preferring the flat layout over the
// raw/ subdirectory.
func findDir(root, name string) (string, error) {
	flat := filepath.Join(root, name)
	raw := filepath.Join(flat, "raw")
	for _, dir := range []string{flat, raw} {
		if _, err := os.Stat(filepath.Join(dir, name+"_A.txt")); err == nil {
			return dir, nil
		}
	}
	return "", fmt.Errorf("tu: dataset %s not found under %s", name, root)
}

// readEdges parses the adjacency file into per-graph edge lists with local
// zero-based endpoints, deduplicating the mirrored pairs TU files list for
// undirected edges.
func readEdges(path string, graphOf, localOf []int) ([][][2]int, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	numGraphs := 0
	for _, g := range graphOf {
		if g+1 > numGraphs {
			numGraphs = g + 1
		}
	}
	edges := make([][][2]int, numGraphs)
	seen := make(map[[3]int]struct{}, len(lines))
	for ln, line := range lines {
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %s line %d: %q", ErrMalformed, filepath.Base(path), ln+1, line)
		}
		a, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: %s line %d: %q", ErrMalformed, filepath.Base(path), ln+1, line)
		}
		if a < 1 || a > len(graphOf) || b < 1 || b > len(graphOf) {
			return nil, fmt.Errorf("%w: %s line %d: node id out of range", ErrMalformed, filepath.Base(path), ln+1)
		}
		ga, gb := graphOf[a-1], graphOf[b-1]
		if ga != gb {
			return nil, fmt.Errorf("%w: %s line %d: edge crosses graphs %d and %d", ErrMalformed, filepath.Base(path), ln+1, ga+1, gb+1)
		}
		u, v := localOf[a-1], localOf[b-1]
		if u > v {
			u, v = v, u
		}
		key := [3]int{ga, u, v}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		edges[ga] = append(edges[ga], [2]int{u, v})
	}
	return edges, nil
}

// readFeatures assembles the per-graph feature matrices from the optional
// attribute and node-label files. Either file may be absent; with both
// absent every matrix is nil.
func readFeatures(dir, name string, graphOf, localOf []int, sizes []int) ([]*mat.Dense, error) {
	numNodes := len(graphOf)

	var attrs [][]float64
	attrPath := filepath.Join(dir, name+"_node_attributes.txt")
	if _, err := os.Stat(attrPath); err == nil {
		attrs, err = readFloatRows(attrPath)
		if err != nil {
			return nil, err
		}
		if len(attrs) != numNodes {
			return nil, fmt.Errorf("%w: %d attribute rows for %d nodes", ErrMalformed, len(attrs), numNodes)
		}
	}

	var labelCol []int
	var labelIndex map[int]int
	labelPath := filepath.Join(dir, name+"_node_labels.txt")
	if _, err := os.Stat(labelPath); err == nil {
		labelCol, err = readInts(labelPath)
		if err != nil {
			return nil, err
		}
		if len(labelCol) != numNodes {
			return nil, fmt.Errorf("%w: %d node labels for %d nodes", ErrMalformed, len(labelCol), numNodes)
		}
		labelIndex = indexLabels(labelCol)
	}

	attrDim := 0
	if len(attrs) > 0 {
		attrDim = len(attrs[0])
	}
	dim := attrDim + len(labelIndex)
	if dim == 0 {
		return make([]*mat.Dense, len(sizes)), nil
	}

	feats := make([]*mat.Dense, len(sizes))
	for i, n := range sizes {
		feats[i] = mat.NewDense(n, dim, nil)
	}
	for node := 0; node < numNodes; node++ {
		f := feats[graphOf[node]]
		row := localOf[node]
		if attrs != nil {
			if len(attrs[node]) != attrDim {
				return nil, fmt.Errorf("%w: attribute row %d has %d columns, want %d", ErrMalformed, node+1, len(attrs[node]), attrDim)
			}
			for c, v := range attrs[node] {
				f.Set(row, c, v)
			}
		}
		if labelIndex != nil {
			f.Set(row, attrDim+labelIndex[labelCol[node]], 1)
		}
	}
	return feats, nil
}

// indexLabels maps the distinct node-label values to consecutive one-hot
// columns in sorted order, so the encoding is stable across loads.
func indexLabels(labels []int) map[int]int {
	distinct := make(map[int]struct{})
	for _, l := range labels {
		distinct[l] = struct{}{}
	}
	sorted := make([]int, 0, len(distinct))
	for l := range distinct {
		sorted = append(sorted, l)
	}
	sort.Ints(sorted)
	index := make(map[int]int, len(sorted))
	for i, l := range sorted {
		index[l] = i
	}
	return index
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tu: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("tu: reading %s: %w", filepath.Base(path), err)
	}
	return lines, nil
}

func readInts(path string) ([]int, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(lines))
	for i, line := range lines {
		v, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %q", ErrMalformed, filepath.Base(path), i+1, line)
		}
		out[i] = v
	}
	return out, nil
}

func readFloatRows(path string) ([][]float64, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(lines))
	for i, line := range lines {
		parts := strings.Split(line, ",")
		row := make([]float64, len(parts))
		for c, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: %q", ErrMalformed, filepath.Base(path), i+1, line)
			}
			row[c] = v
		}
		out[i] = row
	}
	return out, nil
}
