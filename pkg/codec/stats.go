package codec

// Stats summarizes one compression.
type Stats struct {
	OriginalSize   int     `json:"originalSize"`
	CompressedSize int     `json:"compressedSize"`
	Ratio          float64 `json:"compressionRatio"` // Percent saved; negative when the output grew
}

// NewStats computes the savings of compressing original bytes down to
// compressed bytes. Ratio is 0 for an empty original.
func NewStats(original, compressed int) Stats {
	s := Stats{OriginalSize: original, CompressedSize: compressed}
	if original > 0 {
		s.Ratio = (1 - float64(compressed)/float64(original)) * 100
	}
	return s
}
