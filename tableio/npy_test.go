package tableio

import (
	"math"
	"os"
	"path/filepath"

	"github.com/kberkey/ccal/model"
	"github.com/kshedden/gonpy"
	"gopkg.in/check.v1"
)

type npySuite struct{}

var _ = check.Suite(&npySuite{})

func (s *npySuite) TestWriteNpy(c *check.C) {
	tmpdir := c.MkDir()
	m, err := model.NewScoreMatrix([]string{"A", "B"}, []string{"s1", "s2", "s3"},
		[][]float64{{1, 2, 3}, {-0.5, math.NaN(), 6}})
	c.Assert(err, check.IsNil)

	path := filepath.Join(tmpdir, "matrix.npy")
	c.Assert(WriteNpy(path, m, false), check.IsNil)

	f, err := os.Open(path)
	c.Assert(err, check.IsNil)
	defer f.Close()
	npy, err := gonpy.NewReader(f)
	c.Assert(err, check.IsNil)
	c.Check(npy.Shape, check.DeepEquals, []int{2, 3})
	values, err := npy.GetFloat64()
	c.Assert(err, check.IsNil)
	c.Assert(values, check.HasLen, 6)
	c.Check(values[:3], check.DeepEquals, []float64{1, 2, 3})
	c.Check(values[3], check.Equals, -0.5)
	c.Check(math.IsNaN(values[4]), check.Equals, true)
	c.Check(values[5], check.Equals, 6.0)

	labels := filepath.Join(tmpdir, "matrix.features.txt")
	c.Assert(WriteLabels(labels, m.Features, false), check.IsNil)
	buf, err := os.ReadFile(labels)
	c.Assert(err, check.IsNil)
	c.Check(string(buf), check.Equals, "A\nB\n")
}
