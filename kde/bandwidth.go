package kde

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// NormalReferenceBandWidth is Scott's rule scaled by the kernel's normal
// reference constant. x must be sorted.
type NormalReferenceBandWidth struct {
	kernel Kernel
}

func NewNormalReferenceBandWidth(kernel Kernel) *NormalReferenceBandWidth {
	if kernel == nil {
		kernel = NewGaussianKernel()
	}
	return &NormalReferenceBandWidth{
		kernel: kernel,
	}
}

func (bw *NormalReferenceBandWidth) BandWidth(x []float64) float64 {
	C := bw.kernel.NormalReferenceConstant()
	A := selectSigma(x)
	n := len(x)
	return C * A * math.Pow(float64(n), -0.2)
}

// selectSigma is min(std, IQR/1.349), falling back to std when the IQR is 0.
func selectSigma(x []float64) float64 {
	q75 := stat.Quantile(0.75, stat.Empirical, x, nil)
	q25 := stat.Quantile(0.25, stat.Empirical, x, nil)
	iqr := (q75 - q25) / iqrNormalize

	stdDev := stat.StdDev(x, nil)

	if iqr > 0 {
		return math.Min(stdDev, iqr)
	}
	return stdDev
}
