package dhcpopt

// EvalScope carries whatever context-specific state an [Expression] needs to
// reduce itself to bytes: the in-progress inbound packet, lease/client
// state, and the configured/in-packet option trees. The engine treats it as
// an opaque bag; only external Expression implementations inspect it. This
// collapses the evaluate(cache_entry, packet, lease, client_state,
// in_options, cfg_options) contract into a single parameter so the engine's
// signature does not grow with every new kind of context a host wants to
// thread through.
type EvalScope struct {
	// Packet is the inbound, decoded packet being answered, or nil during
	// configuration-time evaluation (e.g. pretty-printing).
	Packet *Packet

	// InOptions is the inbound packet's option state, or nil.
	InOptions *OptionState

	// CfgOptions is the configured option state being assembled from.
	CfgOptions *OptionState

	// Extra is a host-defined escape hatch (e.g. lease or client-state
	// pointers) that the engine never interprets.
	Extra any
}

// Expression reduces an option-cache's value to a concrete byte string in a
// given evaluation scope: an external contract the engine depends on but
// does not implement beyond the two trivial adapters below.
type Expression interface {
	// Evaluate returns the value's bytes, or an error. An empty, nil-error
	// result is treated the same as an absent cache entry for emission
	// purposes, except when the option's format also carries an
	// encapsulation atom.
	Evaluate(scope EvalScope) (data []byte, err error)
}

// ConstEvaluator is an [Expression] that always evaluates to a fixed byte
// string, promoted from raw configuration data when a composition operator
// needs to concatenate onto a previously constant-only entry.
type ConstEvaluator []byte

// Evaluate implements the [Expression] interface for ConstEvaluator.
func (c ConstEvaluator) Evaluate(EvalScope) (data []byte, err error) {
	return []byte(c), nil
}

// FuncEvaluator adapts a plain function to the [Expression] interface, so a
// host state machine can plug in lease/client-aware expressions without this
// package depending on lease or client types.
type FuncEvaluator func(scope EvalScope) (data []byte, err error)

// Evaluate implements the [Expression] interface for FuncEvaluator.
func (f FuncEvaluator) Evaluate(scope EvalScope) (data []byte, err error) {
	return f(scope)
}

// concatExpr is the expression produced by the append/prepend composition
// operators: concat(a, b).
type concatExpr struct {
	a, b Expression
}

// Evaluate implements the [Expression] interface for *concatExpr.
func (c *concatExpr) Evaluate(scope EvalScope) (data []byte, err error) {
	av, err := c.a.Evaluate(scope)
	if err != nil {
		return nil, err
	}

	bv, err := c.b.Evaluate(scope)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(av)+len(bv))
	out = append(out, av...)
	out = append(out, bv...)

	return out, nil
}

// asExpression returns c's expression, promoting a constant-data entry to a
// [ConstEvaluator] first if necessary.
func asExpression(c *OptionCache) (expr Expression) {
	if c.Expr != nil {
		return c.Expr
	}

	return ConstEvaluator(c.Data)
}
