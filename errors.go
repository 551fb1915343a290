package debtbook

// ValidationError reports user-correctable input problems: a malformed
// import document, or a required field left empty on an explicit save.
// The operation that returns it has performed no mutation.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
