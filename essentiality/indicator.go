package essentiality

import (
	"context"
	"fmt"

	"github.com/kberkey/ccal/model"
	"github.com/kberkey/ccal/utils"
	"go.uber.org/zap"
)

// Indicator row suffixes, in the order LookupAmpMutDel returns them.
var IndicatorSuffixes = []string{"AMP", "MUT", "DEL"}

func IndicatorName(gene, suffix string) string {
	return fmt.Sprintf("%s_%s", gene, suffix)
}

// LookupAmpMutDel returns the amplification, mutation and deletion rows of
// gene from table. An absent row is replaced with missing values; that is
// expected for most genes and only logged.
func LookupAmpMutDel(ctx context.Context, table *model.ScoreMatrix, gene string) *model.ScoreMatrix {
	logger := utils.GetLogger(ctx)

	var samples []string
	if table != nil {
		samples = append(samples, table.Samples...)
	}

	names := make([]string, len(IndicatorSuffixes))
	values := make([][]float64, len(IndicatorSuffixes))
	for i, suffix := range IndicatorSuffixes {
		names[i] = IndicatorName(gene, suffix)
		if row, ok := table.Row(names[i]); ok {
			values[i] = append([]float64(nil), row...)
			continue
		}
		logger.Info("no indicator data", zap.String("gene", gene), zap.String("indicator", suffix))
		values[i] = utils.NaNs(len(samples))
	}

	// names are distinct and every row has len(samples) values
	res, _ := model.NewScoreMatrix(names, samples, values)
	return res
}
