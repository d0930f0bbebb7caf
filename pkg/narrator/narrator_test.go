package narrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	content string
	err     error
	delay   time.Duration
}

func (f fakeProvider) Generate(ctx context.Context, summary Summary) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func TestNilProviderIsNotAttachedAndGenerateIsNoop(t *testing.T) {
	n := New(nil, time.Second)
	assert.False(t, n.Attached())

	content, ok := n.Generate(context.Background(), Summary{Topic: "x"})
	assert.False(t, ok)
	assert.Empty(t, content)
}

func TestAttachedProviderReturnsContent(t *testing.T) {
	n := New(fakeProvider{content: "a fine summary"}, time.Second)
	assert.True(t, n.Attached())

	content, ok := n.Generate(context.Background(), Summary{Topic: "x"})
	assert.True(t, ok)
	assert.Equal(t, "a fine summary", content)
}

func TestProviderErrorFailsOpen(t *testing.T) {
	n := New(fakeProvider{err: errors.New("upstream down")}, time.Second)

	content, ok := n.Generate(context.Background(), Summary{})
	assert.False(t, ok)
	assert.Empty(t, content)
}

func TestProviderTimeoutFailsOpen(t *testing.T) {
	n := New(fakeProvider{content: "too slow", delay: 50 * time.Millisecond}, 5*time.Millisecond)

	content, ok := n.Generate(context.Background(), Summary{})
	assert.False(t, ok)
	assert.Empty(t, content)
}

func TestNonPositiveTimeoutDefaultsToTenSeconds(t *testing.T) {
	n := New(fakeProvider{content: "ok"}, 0)
	assert.Equal(t, 10*time.Second, n.timeout)

	n = New(fakeProvider{content: "ok"}, -1)
	assert.Equal(t, 10*time.Second, n.timeout)
}
