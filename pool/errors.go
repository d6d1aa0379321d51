package pool

// Error describes a pool error. Modeled on a module/message error pair:
// a struct type rather than errors.New, so sentinel values can be
// declared as package-level vars without any heap allocation at the
// point they are returned.
type Error struct {
	// Op names the operation that failed, e.g. "New", "Alloc".
	Op string
	// Message is a human-readable description of the failure.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Op + ": " + e.Message
}

var (
	// ErrOutOfMemory is wrapped by the error Alloc returns when the OS
	// page allocator fails to satisfy a request for a fresh slab; test
	// for it with errors.Is.
	ErrOutOfMemory = &Error{Op: "Alloc", Message: "out of memory"}

	// ErrInvalidSize is returned by New when Config.Size is not positive.
	ErrInvalidSize = &Error{Op: "New", Message: "size must be positive"}

	// ErrInvalidAlign is returned by New when Config.Align is not a
	// positive power of two.
	ErrInvalidAlign = &Error{Op: "New", Message: "align must be a positive power of two"}

	// ErrObjectTooLarge is returned by New when 64 objects of the
	// requested size/align, plus slab metadata, would not fit in a
	// single page. This bounds the maximum object size the pool can
	// support.
	ErrObjectTooLarge = &Error{Op: "New", Message: "size/align combination does not fit 64 objects in one page"}

	// ErrDoubleFree is raised (poolcheck builds only) when Free is
	// called on a pointer already known to be free.
	ErrDoubleFree = &Error{Op: "Free", Message: "double free detected"}

	// ErrForeignPointer is raised (poolcheck builds only) when Free is
	// called on a pointer this pool never handed out.
	ErrForeignPointer = &Error{Op: "Free", Message: "free of a pointer this pool did not allocate"}
)
