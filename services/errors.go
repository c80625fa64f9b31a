package services

import "errors"

var (
	ErrArticleNotFound    = errors.New("article not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrSettingsNotLoaded  = errors.New("settings have not been loaded")
)
