package symbolic

import "fmt"

// Validate checks every structural invariant a Symbolic must hold: post-order
// consistency, ascending and in-bounds RelIdx, and block-size agreement.
// Build does not call it (Build checks its own inputs as it constructs a
// Symbolic); callers invoke it on a Symbolic built by hand or after Build.
//
// Stage 1 (Shape): offset tables have the expected Nsn+1 length and are
// non-decreasing.
// Stage 2 (Post-order): every child of a supernode precedes it in SnPost.
// Stage 3 (RelIdx): each supernode's RelIdx slice is strictly ascending and
// in bounds of its parent's frontal.
// Stage 4 (Blocks): BlkPtr[k+1]-BlkPtr[k] == Nk*nk for every supernode k.
func (s *Symbolic) Validate() error {
	// Stage 0: scalar preconditions
	if s.N <= 0 {
		return fmt.Errorf("Validate: %w", ErrInvalidOrder)
	}
	if s.Nsn <= 0 || s.Nsn > s.N {
		return fmt.Errorf("Validate: %w", ErrInvalidSupernodeCount)
	}

	// Stage 1: offset-table shape
	for _, pt := range []struct {
		name string
		ptr  []int
	}{
		{"SnPtr", s.SnPtr},
		{"RelPtr", s.RelPtr},
		{"ChPtr", s.ChPtr},
		{"BlkPtr", s.BlkPtr},
	} {
		if len(pt.ptr) != s.Nsn+1 {
			return fmt.Errorf("Validate: %s has length %d, want %d: %w", pt.name, len(pt.ptr), s.Nsn+1, ErrPtrLengthMismatch)
		}
		for k := 0; k < s.Nsn; k++ {
			if pt.ptr[k+1] < pt.ptr[k] {
				return fmt.Errorf("Validate: %s not monotonic at %d: %w", pt.name, k, ErrNonMonotonicPtr)
			}
		}
	}
	if len(s.SnPost) != s.Nsn {
		return fmt.Errorf("Validate: SnPost has length %d, want %d: %w", len(s.SnPost), s.Nsn, ErrPtrLengthMismatch)
	}

	// Stage 2: post-order consistency — position[k] must exceed position of
	// every child of k.
	position := make([]int, s.Nsn)
	for pos, sn := range s.SnPost {
		position[sn] = pos
	}
	for k := 0; k < s.Nsn; k++ {
		for _, c := range s.ChIdx[s.ChPtr[k]:s.ChPtr[k+1]] {
			if position[c] >= position[k] {
				return fmt.Errorf("Validate: child %d does not precede parent %d in SnPost: %w", c, k, ErrNonPostOrder)
			}
		}
	}

	// Stage 3: RelIdx strictly ascending and in bounds
	parentOf := make([]int, s.Nsn)
	for k := range parentOf {
		parentOf[k] = -1
	}
	for p := 0; p < s.Nsn; p++ {
		for _, c := range s.ChIdx[s.ChPtr[p]:s.ChPtr[p+1]] {
			parentOf[c] = p
		}
	}
	for k := 0; k < s.Nsn; k++ {
		rel := s.RelIdx[s.RelPtr[k]:s.RelPtr[k+1]]
		for i := 1; i < len(rel); i++ {
			if rel[i] <= rel[i-1] {
				return fmt.Errorf("Validate: RelIdx of supernode %d not ascending at %d: %w", k, i, ErrNonAscendingRelIdx)
			}
		}
		if p := parentOf[k]; p != -1 {
			for _, r := range rel {
				if r < 0 || r >= s.Nk(p) {
					return fmt.Errorf("Validate: supernode %d RelIdx entry %d out of parent %d frontal [0,%d): %w", k, r, p, s.Nk(p), ErrRelIdxBounds)
				}
			}
		}
	}

	// Stage 4: block size agreement
	for k := 0; k < s.Nsn; k++ {
		nk := s.nk(k)
		Nk := s.Nk(k)
		want := Nk * nk
		got := s.BlkPtr[k+1] - s.BlkPtr[k]
		if got != want {
			return fmt.Errorf("Validate: supernode %d block size %d, want %d (%dx%d): %w", k, got, want, Nk, nk, ErrBlockSizeMismatch)
		}
	}

	return nil
}
