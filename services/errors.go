package services

import "errors"

// Shared sentinel errors, mapped to HTTP statuses in the handlers package.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed   = errors.New("validation failed")
	ErrCategoryRequired   = errors.New("category is required")
	ErrSchoolNameRequired = errors.New("school name is required")
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrTeamRequired       = errors.New("a team must be selected")
	ErrGameTitleRequired  = errors.New("game title is required")
	ErrGameTimeRequired   = errors.New("game time is required")
	ErrInvalidSide        = errors.New("side must be home or away")
	ErrInvalidGameTime    = errors.New("game time is not a recognized date-time")
	ErrFieldNotEditable   = errors.New("field is not editable")

	// Entity-specific not-found errors
	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrRecordNotFound = errors.New("match record not found")

	// Media
	ErrPhotoUploadFailed      = errors.New("photo upload failed")
	ErrUnsupportedContentType = errors.New("unsupported photo content type")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
)

// ChangeBroadcaster notifies connected clients that a record set changed and
// should be refetched. Writes never depend on it succeeding.
type ChangeBroadcaster interface {
	Broadcast(event string)
}

// Change event names published after successful writes.
const (
	EventTeamsChanged   = "teams_changed"
	EventRosterChanged  = "roster_changed"
	EventRecordsChanged = "records_changed"
)
