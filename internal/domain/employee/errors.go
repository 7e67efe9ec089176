package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrUnknownCourse    = errors.New("unknown course")
	ErrInvalidImageType = errors.New("invalid image type: only jpg, jpeg, png, gif, webp allowed")
	ErrImageTooLarge    = errors.New("image must not exceed 5MB")
)
