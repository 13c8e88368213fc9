package gitmeta

import (
	gogit "github.com/go-git/go-git/v5"
)

// HeadMetadata captures the repository state an audit ran against.
type HeadMetadata struct {
	CommitHash string
	Branch     string
}

// IsRepository reports whether repositoryRoot is inside a git repository.
func IsRepository(repositoryRoot string) bool {
	_, openError := gogit.PlainOpenWithOptions(repositoryRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	return openError == nil
}

// ReadHead returns the HEAD commit and branch for repositoryRoot. A root that
// is not a repository, or one without commits, returns the zero metadata and
// the underlying error; callers treat that as "no metadata", not a failure.
func ReadHead(repositoryRoot string) (HeadMetadata, error) {
	repository, openError := gogit.PlainOpenWithOptions(repositoryRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return HeadMetadata{}, openError
	}

	headReference, headError := repository.Head()
	if headError != nil {
		return HeadMetadata{}, headError
	}

	metadata := HeadMetadata{CommitHash: headReference.Hash().String()}
	if headReference.Name().IsBranch() {
		metadata.Branch = headReference.Name().Short()
	}
	return metadata, nil
}
