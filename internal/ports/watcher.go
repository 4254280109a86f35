package ports

// FileWatcher monitors a single rules file for changes. Used by the watch
// command to drive the rule author's edit-compile-transliterate loop.
type FileWatcher interface {
	// Watch starts monitoring path. onChange fires after each change,
	// debounced — editors often trigger several writes per save.
	Watch(path string, onChange func()) error

	// Stop ends monitoring and releases resources. Safe to call twice.
	Stop() error
}
