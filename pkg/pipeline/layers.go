package pipeline

import (
	"slices"
	"strconv"
	"strings"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
)

// ParseLayerRange parses a layer selection such as "0-5,9,12-14". The
// result is sorted and free of duplicates. An empty string or "all" selects
// every layer and returns nil.
func ParseLayerRange(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.New(errors.ErrCodeInvalidRange, "empty item in layer range %q", s)
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := parseLayer(lo, s)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = parseLayer(hi, s); err != nil {
				return nil, err
			}
		}
		if last < first {
			return nil, errors.New(errors.ErrCodeInvalidRange, "descending range %q", part)
		}
		if last-first > 1_000_000 {
			return nil, errors.New(errors.ErrCodeInvalidRange, "range %q too large", part)
		}
		for id := first; id <= last; id++ {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func parseLayer(s, full string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidRange, "invalid layer %q in %q", s, full)
	}
	return n, nil
}

// selectLayers returns the ids of layers that exist in an object with n
// layers. A nil selection selects every layer.
func selectLayers(sel []int, n int) []int {
	if sel == nil {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, len(sel))
	for _, id := range sel {
		if id < n {
			out = append(out, id)
		}
	}
	return out
}
