package diag

// Shower wraps the Show method. Errors that carry a source context implement
// it, so that ShowError can print the offending code.
type Shower interface {
	// Show takes an indentation string and shows.
	Show(indent string) string
}
