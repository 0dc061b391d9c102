package atlas

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// SortNames sorts file names in root-locale collation order, so "éclair"
// sorts between "eclair" and "zeta" and case only breaks ties. Names that
// collate equal fall back to the byte order of their NFC form, which makes
// the result identical on every file system. Canonically equivalent names
// keep their input order.
func SortNames(names []string) {
	col := collate.New(language.Und)
	slices.SortStableFunc(names, func(a, b string) int {
		na, nb := norm.NFC.String(a), norm.NFC.String(b)
		if c := col.CompareString(na, nb); c != 0 {
			return c
		}
		return strings.Compare(na, nb)
	})
}

// AssignIDs returns one id per name, in the order given.
//
// A name whose base without extension is a non-negative integer keeps that
// integer, so files written by an Exporter pack back under their own ids.
// The remaining names get consecutive ids after the largest numeric one.
// A numeric id that repeats is treated as non-numeric on its second use.
func AssignIDs(names []string) []int {
	ids := make([]int, len(names))
	used := make(map[int]bool, len(names))
	next := 0
	for i, name := range names {
		ids[i] = -1
		if n, ok := numericStem(name); ok && !used[n] {
			ids[i] = n
			used[n] = true
			next = max(next, n+1)
		}
	}
	for i := range ids {
		if ids[i] >= 0 {
			continue
		}
		for used[next] {
			next++
		}
		ids[i] = next
		used[next] = true
	}
	return ids
}

func numericStem(name string) (int, bool) {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	n, err := strconv.Atoi(stem)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
