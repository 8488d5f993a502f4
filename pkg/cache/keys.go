package cache

// Keyer derives cache keys. All keys embed a hash of the input text so
// entries are shared between CLI runs and server requests.
type Keyer interface {
	// TreeKey returns the key for the tree (and frequency table) of a text.
	TreeKey(textHash string) string
	// LayoutKey returns the key for a layout of a text's tree.
	LayoutKey(textHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key for a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the parameters that change a layout.
type LayoutKeyOpts struct {
	VizType      string  `json:"viz_type"`
	Policy       string  `json:"policy,omitempty"`
	Span         float64 `json:"span,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
	LevelHeight  float64 `json:"level_height,omitempty"`
	MarginX      float64 `json:"margin_x,omitempty"`
	MarginY      float64 `json:"margin_y,omitempty"`
	AnchorOffset float64 `json:"anchor_offset,omitempty"`

	// Nodelink layouts carry their DOT source, which bakes in edge bits and
	// leaf codes.
	Bits  bool `json:"bits,omitempty"`
	Codes bool `json:"codes,omitempty"`
}

// ArtifactKeyOpts are the parameters that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
	Bits   bool   `json:"bits,omitempty"`
	Codes  bool   `json:"codes,omitempty"`
	Title  string `json:"title,omitempty"`

	PNGScale float64 `json:"png_scale,omitempty"` // png only
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) TreeKey(textHash string) string {
	return "tree:" + textHash
}

func (DefaultKeyer) LayoutKey(textHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", textHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
