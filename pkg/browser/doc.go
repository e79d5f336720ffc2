// Package browser drives the Chromium instance the uploader works in.
//
// # Architecture
//
// The package is built around three pieces:
//
//  1. Launcher: acquires an isolated browser execution context. Manager is
//     the Playwright implementation; tests substitute browsertest.Launcher.
//  2. Handle: one acquired context with its page and cookie jar. Whoever
//     acquires a Handle owns it exclusively and must Release it.
//  3. Page, Element and Keyboard: the narrow slice of the Playwright page API
//     the workflows use, so flows can be driven by fakes.
//
// # Handle Lifecycle
//
//	handle, err := manager.Acquire(ctx, AcquireOptions{Headless: true})
//	if err != nil {
//	    return err // wraps ErrLaunch
//	}
//	defer handle.Release()
//
//	nav := NewNavigator(30 * time.Second)
//	err = nav.Navigate(handle.Page(), "https://creator.douyin.com", WaitUntilNetworkIdle)
//
// # Profile
//
// Manager launches a persistent context rooted at the configured profile
// directory, so repeated runs reuse the same on-disk profile until it is
// removed. Two handles must never share the directory at the same time;
// Chromium holds a lock on it.
package browser
