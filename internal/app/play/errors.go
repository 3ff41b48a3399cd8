package play

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrSessionNotFound   = errors.New("session not found")
	ErrStoryNotFound     = errors.New("story not found")
	ErrAlreadyDead       = errors.New("session is already dead")
	ErrUnsupportedGenre  = errors.New("unsupported genre")
	ErrNoContentForGenre = errors.New("no content for genre")
	ErrCollaborator      = errors.New("collaborator failure")
)
