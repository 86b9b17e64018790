package connectivity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func TestMonitor_ProbeTransitions(t *testing.T) {
	p := &fakePinger{}
	m := NewMonitor(p, nil)
	ctx := context.Background()

	assert.False(t, m.IsOnline(), "starts offline")

	m.Probe(ctx)
	assert.True(t, m.IsOnline())

	p.err = errors.New("refused")
	m.Probe(ctx)
	assert.False(t, m.IsOnline())
}

func TestMonitor_OnOnlineFiresOnTransitionOnly(t *testing.T) {
	p := &fakePinger{}
	m := NewMonitor(p, nil)
	ctx := context.Background()

	fired := 0
	m.OnOnline(func(ctx context.Context) { fired++ })

	m.SetOnline(ctx, true)
	m.SetOnline(ctx, true) // no transition, no hook
	assert.Equal(t, 1, fired)

	m.SetOnline(ctx, false)
	assert.Equal(t, 1, fired, "going offline must not fire")

	m.SetOnline(ctx, true)
	assert.Equal(t, 2, fired)
}
