package replica

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidLocator(t *testing.T) {
	tests := []struct {
		name     string
		locator  string
		expected bool
	}{
		{name: "generated", locator: NewLocator().String(), expected: true},
		{name: "canonical", locator: "txt:b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5", expected: true},
		{name: "empty", locator: "", expected: false},
		{name: "missing prefix", locator: "b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5", expected: false},
		{name: "bad uuid", locator: "txt:not-a-uuid", expected: false},
		{name: "automerge style", locator: "automerge:4NMNnkMhL8jXrdJ9jamS58PAVdXu", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidLocator(tt.locator))
		})
	}
}

func TestSubscribers(t *testing.T) {
	var subs Subscribers[func(int)]
	calls := 0

	unsubA := subs.Add(func(int) { calls++ })
	unsubB := subs.Add(func(int) { calls += 10 })
	assert.Equal(t, 2, subs.Len())

	for _, fn := range subs.Snapshot() {
		fn(1)
	}
	assert.Equal(t, 11, calls)

	unsubA()
	unsubA() // повторный вызов ничего не делает
	assert.Equal(t, 1, subs.Len())

	subs.Close()
	assert.Equal(t, 0, subs.Len())
	unsubB()

	subs.Add(func(int) {})
	assert.Equal(t, 0, subs.Len())
}
