package dag

import (
	"context"

	apperrors "github.com/kbukum/adapters/errors"
)

// ValidatorNode is a graph node that applies an ordered list of validators.
type ValidatorNode struct {
	*Base
	validators []Validator
	hooks      hooks
}

var _ Node = (*ValidatorNode)(nil)

// Option configures optional behaviour of a ValidatorNode.
type Option func(*ValidatorNode)

// NewValidatorNode creates a node applying validators in the given order.
func NewValidatorNode(cfg NodeConfig, validators []Validator, opts ...Option) *ValidatorNode {
	n := &ValidatorNode{
		Base:       NewBase(cfg),
		validators: append([]Validator(nil), validators...),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Validators returns the validators in execution order.
func (n *ValidatorNode) Validators() []Validator {
	return append([]Validator(nil), n.validators...)
}

// AddDependency records that n depends on other.
func (n *ValidatorNode) AddDependency(other Node) { AddDependency(n, other) }

// AddDependant records that other depends on n.
func (n *ValidatorNode) AddDependant(other Node) { AddDependant(n, other) }

// Validate checks that rec holds every input, runs the validators on a copy
// of rec and fills absent outputs with nil. The caller's record is never
// modified by the node itself.
func (n *ValidatorNode) Validate(ctx context.Context, rec Record, params Params) (Record, error) {
	if !n.hooks.enabled() {
		return n.validate(ctx, rec, params)
	}
	return n.hooks.around(ctx, n, func(ctx context.Context) (Record, error) {
		return n.validate(ctx, rec, params)
	})
}

func (n *ValidatorNode) validate(ctx context.Context, rec Record, params Params) (Record, error) {
	if missing := n.Inputs().Missing(rec); len(missing) > 0 {
		return nil, apperrors.MissingInput(n.Name(), missing)
	}

	data := rec.Clone()
	for _, v := range n.validators {
		next, err := v(ctx, data, params)
		if err != nil {
			return nil, err
		}
		if next != nil {
			data = next
		}
	}

	for _, key := range n.Outputs().Names() {
		if _, ok := data[key]; !ok {
			data[key] = nil
		}
	}
	return data, nil
}
