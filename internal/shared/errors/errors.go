package errors

import "errors"

var (
	ErrMissingCommunityID  = errors.New("CA_COMMUNITY_ID environment variable or community_id config key is required")
	ErrUnauthorized        = errors.New("unauthorized user")
	ErrMissingAllowedUsers = errors.New("allowed_users must list at least one user when telegram_bot_token is set")
	ErrCommunityNotFound   = errors.New("community not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMissingDisplayName  = errors.New("participant has no display name")
	ErrRemovalRefused      = errors.New("removal refused")
	ErrNoPendingRemoval    = errors.New("no pending removal")
	ErrEmptyReport         = errors.New("nothing to export")
	ErrUnknownReport       = errors.New("report not found")
)
