package project

import "errors"

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectNameExists = errors.New("project with this name already exists")
	ErrInvalidEmployees  = errors.New("employees must be a list of employee IDs")
)
