package store

import "context"

// Stateless trades persistence for simplicity: every cycle starts from an
// empty seen set and nothing is ever written, so every matching record is
// reported as new on every run.
type Stateless struct{}

func NewStateless() *Stateless { return &Stateless{} }

func (*Stateless) Load(ctx context.Context) *SeenSet { return NewSeenSet() }

func (*Stateless) Save(ctx context.Context, set *SeenSet) error { return nil }
