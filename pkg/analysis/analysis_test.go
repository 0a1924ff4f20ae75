package analysis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplemine/ripplemine/pkg/analysis"
	"github.com/ripplemine/ripplemine/pkg/cochange"
)

type fakeProvider struct {
	diffs map[cochange.Bin]cochange.DiffRecord
	err   error
}

func (f fakeProvider) MineDiffs(context.Context) (map[cochange.Bin]cochange.DiffRecord, error) {
	return f.diffs, f.err
}

type fakeSink struct {
	got analysis.Artifacts
	err error
}

func (f *fakeSink) Emit(_ context.Context, a analysis.Artifacts) error {
	f.got = a
	return f.err
}

func sampleDiffs() map[cochange.Bin]cochange.DiffRecord {
	now := cochange.Bin(time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))

	return map[cochange.Bin]cochange.DiffRecord{
		now: {NewFiles: []string{"a.go", "b.go"}},
	}
}

func TestAnalysis_RunCompletes(t *testing.T) {
	t.Parallel()

	a := analysis.New(analysis.Options{Algorithm: cochange.Naive})
	sink := &fakeSink{}

	require.Equal(t, analysis.Initialized, a.Status())

	err := a.Run(context.Background(), fakeProvider{diffs: sampleDiffs()}, sink)
	require.NoError(t, err)

	assert.Equal(t, analysis.Completed, a.Status())
	assert.NoError(t, a.Err())
	assert.GreaterOrEqual(t, a.Elapsed(), time.Duration(0))
	assert.Equal(t, 2, sink.got.Changes.F.Rows())
}

func TestAnalysis_ProviderFailureTransitionsToFailed(t *testing.T) {
	t.Parallel()

	boom := errors.New("repository unreachable")
	a := analysis.New(analysis.Options{Algorithm: cochange.Naive})

	err := a.Run(context.Background(), fakeProvider{err: boom}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, analysis.Failed, a.Status())
	assert.ErrorIs(t, a.Err(), boom)
}

func TestAnalysis_SinkFailureTransitionsToFailed(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	a := analysis.New(analysis.Options{Algorithm: cochange.Naive})

	err := a.Run(context.Background(), fakeProvider{diffs: sampleDiffs()}, &fakeSink{err: boom})

	require.Error(t, err)
	assert.Equal(t, analysis.Failed, a.Status())
}

func TestAnalysis_EmptyInputIsNotAnError(t *testing.T) {
	t.Parallel()

	a := analysis.New(analysis.Options{Algorithm: cochange.Nop})

	err := a.Run(context.Background(), fakeProvider{diffs: map[cochange.Bin]cochange.DiffRecord{}}, nil)

	require.NoError(t, err)
	assert.Equal(t, analysis.Completed, a.Status())
	assert.Empty(t, a.Artifacts().Ripple.Values)
}
