package kde

const (
	// The grid extends cut*bw past both ends of the data so the kernel
	// mass at the edges is not truncated.
	DefaultCut = 3.0

	MinGridSize = 100

	// IQR of the standard normal.
	iqrNormalize = 1.349
)
