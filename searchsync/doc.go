// Package searchsync synchronizes a search-as-you-type input with the
// query parameters of the current URL.
//
// The pieces, leaves first:
//   - QueryFrom reads the committed search term from the URL
//   - State.Dirty tracks whether the user has edited the input
//   - a single debounce timer (Clock) delays commits until input is idle
//   - CommitIntent and Intent build the next URL, keeping or dropping the
//     page and sort parameters
//
// Typical flow: a keystroke marks the input dirty and updates it at once,
// the timer is re-armed, and once the quiet period elapses the trimmed term
// is committed through the Navigator. The navigation changes the URL, which
// is reported back with OnExternalURLChange; because the input is dirty it
// is not overwritten, so the text under the cursor never jumps.
package searchsync
