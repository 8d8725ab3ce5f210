package app

import "errors"

var (
	// ErrPersonalInfoNotFound means no personal info record is configured.
	ErrPersonalInfoNotFound = errors.New("personal info not found")
	// ErrResumeNotFound means there is no personal info or it has no resume attached.
	ErrResumeNotFound = errors.New("resume not found")
	// ErrResumeFileMissing means the resume key is set but the object is gone from storage.
	ErrResumeFileMissing = errors.New("resume file not found on storage")
	// ErrMediaNotFound means a media key does not resolve to an object.
	ErrMediaNotFound = errors.New("media not found")
)
