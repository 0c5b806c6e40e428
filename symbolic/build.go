package symbolic

import "fmt"

// Build assembles a Symbolic from a supernodal elimination forest: a parent
// pointer per supernode (-1 marks a root), each supernode's owned column
// count nk, and each supernode's RelIdx row list (whose length is that
// supernode's frontal size Nk — see Symbolic.Nk).
//
// This mirrors how an external pattern-analysis step would hand a finished
// elimination tree to this engine; Build itself performs no fill-reducing
// ordering or pattern analysis.
//
// Stage 1 (Validate): parent pointers are in range and not self-loops; nk
// and relIdx are individually well formed. (Cycles are detected in Stages 3
// and 4.)
// Stage 2 (Columns): SnPtr is the prefix sum of nk.
// Stage 3 (Children): ChPtr/ChIdx group supernodes by parent.
// Stage 4 (Post-order): SnPost via iterative DFS, ascending child order.
// Stage 5 (Relative index & blocks): RelPtr/RelIdx copied from input;
// BlkPtr is the prefix sum of Nk*nk.
// Stage 6 (Memory hints): StackDepth/StackMem/FrontalMem computed by
// simulating the post-order walk's stack traffic.
func Build(n int, parent []int, nk []int, relIdx [][]int) (*Symbolic, error) {
	nsn := len(parent)

	// Stage 1: scalar and per-supernode validation
	if n <= 0 {
		return nil, fmt.Errorf("Build: %w", ErrInvalidOrder)
	}
	if nsn <= 0 || nsn > n {
		return nil, fmt.Errorf("Build: %w", ErrInvalidSupernodeCount)
	}
	if len(nk) != nsn {
		return nil, fmt.Errorf("Build: nk has length %d, want %d: %w", len(nk), nsn, ErrPtrLengthMismatch)
	}
	if len(relIdx) != nsn {
		return nil, fmt.Errorf("Build: relIdx has length %d, want %d: %w", len(relIdx), nsn, ErrPtrLengthMismatch)
	}
	for k := 0; k < nsn; k++ {
		if parent[k] < -1 || parent[k] >= nsn || parent[k] == k {
			return nil, fmt.Errorf("Build: supernode %d has parent %d: %w", k, parent[k], ErrInvalidParent)
		}
		Nk := len(relIdx[k])
		if nk[k] <= 0 || nk[k] > Nk {
			return nil, fmt.Errorf("Build: supernode %d has nk=%d, Nk=%d: %w", k, nk[k], Nk, ErrInvalidCard)
		}
		for i := 1; i < Nk; i++ {
			if relIdx[k][i] <= relIdx[k][i-1] {
				return nil, fmt.Errorf("Build: relIdx of supernode %d not ascending at %d: %w", k, i, ErrNonAscendingRelIdx)
			}
		}
	}

	// Stage 2: owned columns, partitioned by supernode index order
	snPtr := make([]int, nsn+1)
	for k := 0; k < nsn; k++ {
		snPtr[k+1] = snPtr[k] + nk[k]
	}
	if snPtr[nsn] != n {
		return nil, fmt.Errorf("Build: owned columns sum to %d, want N=%d: %w", snPtr[nsn], n, ErrPtrLengthMismatch)
	}

	// Stage 3: children lists via counting sort over parent
	chCount := make([]int, nsn)
	roots := 0
	for k := 0; k < nsn; k++ {
		if parent[k] == -1 {
			roots++
			continue
		}
		chCount[parent[k]]++
	}
	if roots == 0 {
		return nil, fmt.Errorf("Build: no root supernode: %w", ErrCyclicForest)
	}
	chPtr := make([]int, nsn+1)
	for k := 0; k < nsn; k++ {
		chPtr[k+1] = chPtr[k] + chCount[k]
	}
	chIdx := make([]int, chPtr[nsn])
	fill := make([]int, nsn)
	copy(fill, chPtr[:nsn])
	for k := 0; k < nsn; k++ {
		if parent[k] == -1 {
			continue
		}
		p := parent[k]
		chIdx[fill[p]] = k
		fill[p]++
	}

	// Stage 3b: bounds-check RelIdx against the parent's frontal size
	for k := 0; k < nsn; k++ {
		if parent[k] == -1 {
			continue
		}
		parentNk := len(relIdx[parent[k]])
		for _, r := range relIdx[k] {
			if r < 0 || r >= parentNk {
				return nil, fmt.Errorf("Build: supernode %d RelIdx entry %d out of parent %d frontal [0,%d): %w", k, r, parent[k], parentNk, ErrRelIdxBounds)
			}
		}
	}

	// Stage 4: post-order via iterative DFS, ascending child order, one DFS
	// per root in ascending root order
	snPost := make([]int, 0, nsn)
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, nsn)
	for root := 0; root < nsn; root++ {
		if parent[root] != -1 || color[root] != white {
			continue
		}
		stack := []int{root}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			switch color[top] {
			case white:
				color[top] = gray
				for i := chPtr[top+1] - 1; i >= chPtr[top]; i-- {
					c := chIdx[i]
					if color[c] == gray {
						return nil, fmt.Errorf("Build: cycle detected at supernode %d: %w", c, ErrCyclicForest)
					}
					if color[c] == white {
						stack = append(stack, c)
					}
				}
			case gray:
				color[top] = black
				snPost = append(snPost, top)
				stack = stack[:len(stack)-1]
			case black:
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(snPost) != nsn {
		return nil, fmt.Errorf("Build: %d supernodes unreachable from any root: %w", nsn-len(snPost), ErrCyclicForest)
	}

	// Stage 5: relative index and block offsets
	relPtr := make([]int, nsn+1)
	for k := 0; k < nsn; k++ {
		relPtr[k+1] = relPtr[k] + len(relIdx[k])
	}
	flatRel := make([]int, relPtr[nsn])
	for k := 0; k < nsn; k++ {
		copy(flatRel[relPtr[k]:relPtr[k+1]], relIdx[k])
	}
	blkPtr := make([]int, nsn+1)
	for k := 0; k < nsn; k++ {
		Nk := len(relIdx[k])
		blkPtr[k+1] = blkPtr[k] + Nk*nk[k]
	}

	// Stage 6: memory hints, simulated along the post-order walk
	var stackDepth, stackMem, curDepth, curMem, frontalMem int
	for _, k := range snPost {
		Nk := len(relIdx[k])
		if Nk*Nk > frontalMem {
			frontalMem = Nk * Nk
		}
		for _, c := range chIdx[chPtr[k]:chPtr[k+1]] {
			Nc, ncCols := len(relIdx[c]), nk[c]
			updSize := Nc - ncCols
			curDepth--
			curMem -= updSize * updSize
		}
		if parent[k] != -1 {
			updSize := Nk - nk[k]
			curDepth++
			curMem += updSize * updSize
		}
		if curDepth > stackDepth {
			stackDepth = curDepth
		}
		if curMem > stackMem {
			stackMem = curMem
		}
	}

	return &Symbolic{
		N:      n,
		Nsn:    nsn,
		SnPost: snPost,
		SnPtr:  snPtr,
		RelPtr: relPtr,
		RelIdx: flatRel,
		ChPtr:  chPtr,
		ChIdx:  chIdx,
		BlkPtr: blkPtr,
		Memory: Memory{
			StackDepth: stackDepth,
			StackMem:   stackMem,
			FrontalMem: frontalMem,
		},
	}, nil
}
