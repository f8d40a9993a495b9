// Package essentiality derives per-sample essentiality indices from skew-t
// fits of gene knockdown scores.
//
// For a feature with fit (df, shape, location, scale) the skew-t density is
// evaluated on a grid over the observed range and again on the grid
// mirrored through the density's maximum. The cumulative area ratio of the
// two curves, oriented by the sign of shape, is the index curve; each
// observed score is replaced by the index of its nearest grid point.
package essentiality
