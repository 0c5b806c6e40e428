package chordal

// CompletionOptions configures chordal.Completion.
type CompletionOptions struct {
	// FactoredUpdates selects whether the Schur-type blocks passed between
	// supernodes on the update stack are maintained already Cholesky-factored
	// (true, the default) or as plain dense symmetric blocks (false).
	FactoredUpdates bool
}

// CompletionOption configures a CompletionOptions before a Completion call,
// mirroring the functional-options pattern used for GraphOption/EdgeOption.
type CompletionOption func(*CompletionOptions)

// WithFactoredUpdates overrides whether Completion's inter-supernode update
// blocks are kept Cholesky-factored.
func WithFactoredUpdates(factored bool) CompletionOption {
	return func(o *CompletionOptions) { o.FactoredUpdates = factored }
}

func defaultCompletionOptions() CompletionOptions {
	return CompletionOptions{FactoredUpdates: true}
}

// HessianOptions configures chordal.Hessian.
type HessianOptions struct {
	// Adj selects the direction: nil is the absent sentinel meaning
	// "evaluate the composed Hessian H_X rather than one single-direction
	// operator" (see Hessian's doc comment for the full truth table).
	Adj *bool
	// Inv selects the operator's inverse rather than itself.
	Inv bool
	// FactoredUpdates mirrors CompletionOptions.FactoredUpdates for the
	// separator blocks Hessian threads between supernodes.
	FactoredUpdates bool
}

// HessianOption configures a HessianOptions before a Hessian call.
type HessianOption func(*HessianOptions)

// WithAdjoint selects G_X^adj (true) or G_X (false) instead of the composed
// H_X that results when Adj is left absent.
func WithAdjoint(adj bool) HessianOption {
	return func(o *HessianOptions) { o.Adj = &adj }
}

// WithInverse selects the inverse of whichever operator Adj selects.
func WithInverse(inv bool) HessianOption {
	return func(o *HessianOptions) { o.Inv = inv }
}

// WithHessianFactoredUpdates overrides whether Hessian's inter-supernode
// update blocks are kept Cholesky-factored.
func WithHessianFactoredUpdates(factored bool) HessianOption {
	return func(o *HessianOptions) { o.FactoredUpdates = factored }
}

func defaultHessianOptions() HessianOptions {
	return HessianOptions{Adj: nil, Inv: false, FactoredUpdates: true}
}
