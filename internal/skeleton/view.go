package skeleton

// Display is what a data-backed section renders.
type Display int

const (
	DisplayReady Display = iota
	DisplaySkeleton
	DisplayError
	DisplayEmpty
)

func (d Display) String() string {
	switch d {
	case DisplaySkeleton:
		return "skeleton"
	case DisplayError:
		return "error"
	case DisplayEmpty:
		return "empty"
	default:
		return "ready"
	}
}

// View picks the display state. The placeholder wins while the grace window
// is open; after it closes an error beats an empty result.
func View(showSkeleton bool, err error, empty bool) Display {
	switch {
	case showSkeleton:
		return DisplaySkeleton
	case err != nil:
		return DisplayError
	case empty:
		return DisplayEmpty
	default:
		return DisplayReady
	}
}
