package trainer

// Policy decides how node features are prepared for a named dataset.
type Policy int

const (
	// PolicyNodeFeatures uses the dataset's own node features unchanged.
	PolicyNodeFeatures Policy = iota

	// PolicyDegreeFeatures derives one-hot degree features, for datasets
	// whose graphs carry no informative node features.
	PolicyDegreeFeatures
)

// policies maps dataset names to feature policies. Registration happens at
// init time; the map is read-only afterwards.
var policies = map[string]Policy{
	"NCI1":        PolicyNodeFeatures,
	"MUTAG":       PolicyNodeFeatures,
	"PROTEINS":    PolicyNodeFeatures,
	"NCI109":      PolicyNodeFeatures,
	"COLLAB":      PolicyDegreeFeatures,
	"IMDB-BINARY": PolicyDegreeFeatures,
}

// RegisterDataset maps a dataset name to a feature policy, making a new
// dataset a data change rather than a code change. Call it before building
// a Runner; registration is not synchronized.
func RegisterDataset(name string, p Policy) {
	policies[name] = p
}
