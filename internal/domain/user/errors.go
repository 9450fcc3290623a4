package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailTaken             = errors.New("the email has already been taken")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrCannotDeleteSelf       = errors.New("you cannot delete your own account")
	ErrInvalidCurrentPassword = errors.New("the current password is incorrect")
)
