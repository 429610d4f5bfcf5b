package docref

import "context"

//go:generate moq -out source_mock.go . LocatorSource

// LocatorSource is the externally observable document locator, such as a
// value persisted in client storage. The resolver reads it on start, writes
// canonical locators back to it and follows its changes.
type LocatorSource interface {
	// Locator returns the current locator; an empty string means none
	Locator(ctx context.Context) (string, error)

	// SetLocator replaces the locator and notifies watchers
	SetLocator(ctx context.Context, locator string) error

	// Watch registers fn for locator changes and returns a function that stops watching
	Watch(fn func(locator string)) func()
}
