package frontal

import "fmt"

// LMerge overwrites left[offsetL:offsetL+k] with the ascending set-union of
// the two strictly ascending ranges left[offsetL:offsetL+nl] and
// right[offsetR:offsetR+nr], and returns k (max(nl,nr) <= k <= nl+nr; equal
// elements are emitted once).
//
// Stage 1 (Validate): left must have room for the worst case (nl+nr) past
// offsetL, checked via cap rather than risking silent out-of-bounds writes.
// Stage 2 (Snapshot): the left range is copied aside before being
// overwritten, since the merge writes into the same backing array it reads
// from.
// Stage 3 (Merge): standard two-pointer ascending merge with dedup.
func LMerge(left, right []int, offsetL, offsetR, nl, nr int) (int, error) {
	// Stage 1: validate destination capacity
	if cap(left)-offsetL < nl+nr {
		return 0, fmt.Errorf("LMerge: left has room for %d past offset %d, need %d: %w", cap(left)-offsetL, offsetL, nl+nr, ErrBufferLength)
	}

	// Stage 2: snapshot the left range, since it will be overwritten in place
	lsnap := make([]int, nl)
	copy(lsnap, left[offsetL:offsetL+nl])
	rseg := right[offsetR : offsetR+nr]

	// Stage 3: two-pointer ascending merge with dedup
	i, j, k := 0, 0, 0
	for i < nl && j < nr {
		switch {
		case lsnap[i] < rseg[j]:
			left[offsetL+k] = lsnap[i]
			i++
		case lsnap[i] > rseg[j]:
			left[offsetL+k] = rseg[j]
			j++
		default:
			left[offsetL+k] = lsnap[i]
			i++
			j++
		}
		k++
	}
	for i < nl {
		left[offsetL+k] = lsnap[i]
		i++
		k++
	}
	for j < nr {
		left[offsetL+k] = rseg[j]
		j++
		k++
	}

	return k, nil
}
