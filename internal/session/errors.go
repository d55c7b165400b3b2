package session

import "errors"

var (
	// ErrNotFound is returned when no session exists for the given id.
	ErrNotFound = errors.New("session.not_found")

	// ErrExpired is returned when a session exists but is past its expiry.
	ErrExpired = errors.New("session.expired")

	// ErrIDGeneration is returned when secure random id generation fails.
	ErrIDGeneration = errors.New("session.id_generation_failed")

	// ErrSaveSession is returned when persisting a session fails.
	ErrSaveSession = errors.New("session.save_failed")

	// ErrDeleteSession is returned when removing a session from the store fails.
	ErrDeleteSession = errors.New("session.delete_failed")

	// ErrInvalidSession is returned for structurally invalid session records.
	ErrInvalidSession = errors.New("session.invalid")
)
