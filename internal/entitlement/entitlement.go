// Package entitlement gates creation of consuming records behind the
// subscription state. The deduction engine itself is entitlement-agnostic;
// callers consult the gate before invoking it.
package entitlement

import (
	"context"
	"errors"
)

var ErrNotEntitled = errors.New("an active subscription is required to record visits")

type Gate interface {
	CanCreateConsumingRecords(ctx context.Context) bool
}

// ConfigGate resolves entitlement from static configuration: the externally
// synced subscription flag, with a debug bypass for development builds.
type ConfigGate struct {
	subscriptionActive bool
	debugBypass        bool
}

func NewConfigGate(subscriptionActive, debugBypass bool) *ConfigGate {
	return &ConfigGate{
		subscriptionActive: subscriptionActive,
		debugBypass:        debugBypass,
	}
}

func (g *ConfigGate) CanCreateConsumingRecords(ctx context.Context) bool {
	return g.subscriptionActive || g.debugBypass
}
