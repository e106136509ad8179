// Package splitter rewrites a single-node Select into a map query run
// against every shard and a reduce query run by the coordinator over the
// merged results, decomposing aggregates algebraically along the way.
package splitter

import "strconv"

// tableName returns the i-th synthetic merge-table name, __T0, __T1, ...
func tableName(i int) string {
	return "__T" + strconv.Itoa(i)
}

// columnName returns the i-th synthetic merge-column alias, __C0, __C1, ...
func columnName(i int) string {
	return "__C" + strconv.Itoa(i)
}
