package viewer

// ViewerState is the modal state of the screen.
type ViewerState int

const (
	// Viewing is the normal state: paging, set-as-cover, entering delete.
	Viewing ViewerState = iota
	// ConfirmingDelete waits for the user to confirm or cancel a delete.
	ConfirmingDelete
)

func (s ViewerState) String() string {
	switch s {
	case Viewing:
		return "Viewing"
	case ConfirmingDelete:
		return "ConfirmingDelete"
	default:
		return "Unknown"
	}
}
