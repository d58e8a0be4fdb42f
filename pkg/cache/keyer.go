package cache

// ArtifactKeyOpts are the render options that distinguish artifacts built
// from the same inputs.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey keys one rendered format of a report.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
	// SummaryKey keys the layout summary of a report.
	SummaryKey(inputHash string) string
}

// keyVersion is bumped whenever the artifact encoding changes.
const keyVersion = "v1"

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, inputHash, opts)
}

// SummaryKey returns "summary:<hash>".
func (DefaultKeyer) SummaryKey(inputHash string) string {
	return hashKey("summary", keyVersion, inputHash)
}

var _ Keyer = DefaultKeyer{}
