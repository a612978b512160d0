// Package app contains the main application state and logic.
//
// The Model owns all mutable session state: the branch list, selection and
// scroll position, modal mode, fetch bookkeeping and the deletion log.
// Background fetches never touch the Model; they report back through
// messages handled in Update.
package app
