package generator

import "errors"

// Drift check errors.
var (
	// ErrNondeterministic is returned when two renders of the same revision differ.
	ErrNondeterministic = errors.New("rendering is not deterministic")

	// ErrDrift is returned when a rendered artifact no longer matches its
	// manifest digest.
	ErrDrift = errors.New("artifact drifted from manifest")

	// ErrNotInManifest is returned when a revision has no manifest entry.
	ErrNotInManifest = errors.New("revision not in manifest")

	// ErrArtifactMissing is returned when a recorded artifact is absent on disk.
	ErrArtifactMissing = errors.New("artifact missing")
)
