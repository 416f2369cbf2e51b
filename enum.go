package dhcpopt

import (
	"fmt"
	"sync"
)

// EnumSet holds named enumerations referenced by format atoms of kind
// [AtomEnum] ("N.<space>."), mapping a numeric value to its display label
// within that enumeration's namespace. A zero-value EnumSet is usable
// empty; every lookup simply misses.
type EnumSet struct {
	mu sync.RWMutex
	names map[string]map[uint32]string
}

// NewEnumSet returns an empty EnumSet.
func NewEnumSet() (e *EnumSet) {
	return &EnumSet{names: map[string]map[uint32]string{}}
}

// Register adds value's label within the enumeration named space.
func (e *EnumSet) Register(space string, value uint32, label string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.names[space]
	if !ok {
		m = map[uint32]string{}
		e.names[space] = m
	}

	m[value] = label
}

// Lookup returns value's label within space, falling back to its decimal
// form if unregistered.
func (e *EnumSet) Lookup(space string, value uint32) (label string) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if m, ok := e.names[space]; ok {
		if label, ok = m[value]; ok {
			return label
		}
	}

	return fmt.Sprintf("%d", value)
}

// dhcpv4MessageTypeEnum is the "msg-type-v4" enumeration, registered by
// [RegisterBuiltinEnums].
const dhcpv4MessageTypeEnum = "msg-type-v4"

// dhcpv6MessageTypeEnum is the "msg-type-v6" enumeration.
const dhcpv6MessageTypeEnum = "msg-type-v6"

// RegisterBuiltinEnums populates e with the DHCPv4 and DHCPv6 message-type
// enumerations, the two well-known enumerations this package's own
// descriptors reference.
func RegisterBuiltinEnums(e *EnumSet) {
	v4 := map[uint32]string{
		MsgTypeDiscover: "DISCOVER",
		MsgTypeOffer: "OFFER",
		MsgTypeRequest: "REQUEST",
		MsgTypeDecline: "DECLINE",
		MsgTypeAck: "ACK",
		MsgTypeNak: "NAK",
		MsgTypeRelease: "RELEASE",
		MsgTypeInform: "INFORM",
	}
	for code, label := range v4 {
		e.Register(dhcpv4MessageTypeEnum, code, label)
	}

	v6 := map[uint32]string{
		MsgTypeV6Solicit: "SOLICIT",
		MsgTypeV6Advertise: "ADVERTISE",
		MsgTypeV6Request: "REQUEST",
		MsgTypeV6Confirm: "CONFIRM",
		MsgTypeV6Renew: "RENEW",
		MsgTypeV6Rebind: "REBIND",
		MsgTypeV6Reply: "REPLY",
		MsgTypeV6Release: "RELEASE",
		MsgTypeV6Decline: "DECLINE",
		MsgTypeV6Reconfigure: "RECONFIGURE",
		MsgTypeV6InformationRequest: "INFORMATION-REQUEST",
		MsgTypeV6RelayForw: "RELAY-FORW",
		MsgTypeV6RelayRepl: "RELAY-REPL",
	}
	for code, label := range v6 {
		e.Register(dhcpv6MessageTypeEnum, code, label)
	}
}
