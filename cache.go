package dhcpopt

// OptionCache is a tagged value bound to an option [Descriptor]. It carries
// either concrete Data or an unevaluated Expr (never both), plus the flags
// needed for round-tripping client quirks on re-emission, and a Next
// pointer used only for non-concatenating repeated occurrences.
//
// OptionCache entries are not reference-counted: Data, when non-nil, is an
// ordinary Go byte slice that may alias a packet's shared input buffer, and
// the Go garbage collector keeps that buffer alive for as long as any
// entry still points into it.
type OptionCache struct {
	// Descriptor is the option this entry's value is interpreted under. It
	// is never nil.
	Descriptor *Descriptor

	// Data is the concrete byte value, or nil if Expr is set instead.
	Data []byte

	// Expr is an unevaluated expression that produces Data when reduced by
	// a [Evaluator], or nil if Data is set instead.
	Expr Expression

	// Next chains repeated occurrences of the same code, in insertion
	// order, for universes where Descriptor's universe does not
	// concatenate duplicates.
	Next *OptionCache

	// Terminated records that the wire payload was NUL-padded at decode
	// time.
	Terminated bool

	// HadNulls records that trailing NULs were stripped from a text value
	// at decode time and must be restored for this client on emission.
	HadNulls bool
}

// HasExpr reports whether c carries an unevaluated expression rather than
// concrete data.
func (c *OptionCache) HasExpr() (ok bool) {
	return c != nil && c.Expr != nil && c.Data == nil
}

// clone returns a shallow copy of c with Next cleared, used when splicing an
// entry into a different chain (e.g. during composition).
func (c *OptionCache) clone() (clone *OptionCache) {
	cp := *c
	cp.Next = nil

	return &cp
}

// chainAppend appends entry to the end of the Next-chain rooted at head,
// returning the (possibly new) head.
func chainAppend(head, entry *OptionCache) (newHead *OptionCache) {
	if head == nil {
		return entry
	}

	tail := head
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = entry

	return head
}
