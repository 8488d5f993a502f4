// Package artifact stores the files produced by the compress and decompress
// endpoints so they can be downloaded later.
//
// Every stored file gets a fresh name of the form <uuid>.<ext>; the
// sanitized name the client uploaded is kept alongside it and becomes the
// download filename. Two backends implement [Store]: [FileStore] keeps one
// directory per [Kind], [MongoStore] keeps one document per artifact.
package artifact

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	herrors "github.com/matzehuels/huffviz/pkg/errors"
)

// ErrNotFound is returned when no artifact exists for a kind and name.
var ErrNotFound = errors.New("artifact not found")

// Kind separates artifact namespaces.
type Kind string

const (
	KindCompressed   Kind = "compressed"
	KindDecompressed Kind = "decompressed"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindCompressed || k == KindDecompressed
}

// Ref identifies a stored artifact.
type Ref struct {
	Kind     Kind   `json:"kind" bson:"kind"`
	Name     string `json:"name" bson:"name"`
	Filename string `json:"filename" bson:"filename"`
	Size     int64  `json:"size" bson:"size"`
}

// Artifact is a stored file with its metadata.
type Artifact struct {
	Ref       `bson:",inline"`
	Data      []byte    `json:"-" bson:"data"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store persists artifacts.
type Store interface {
	// Put stores data under a new name derived from the uploaded filename.
	Put(ctx context.Context, kind Kind, filename string, data []byte) (Ref, error)
	// Get returns the artifact or ErrNotFound.
	Get(ctx context.Context, kind Kind, name string) (*Artifact, error)
	// Delete removes an artifact. Deleting a missing artifact is not an error.
	Delete(ctx context.Context, kind Kind, name string) error
	Close() error
}

// NewRef builds the reference for a new artifact of kind from the filename a
// client uploaded. The stored name is a random UUID with the kind's
// extension, the download filename follows the uploaded one:
//
//	compressed:   notes.txt -> notes.bin
//	decompressed: notes.bin -> notes_decompressed.txt
func NewRef(kind Kind, filename string) (Ref, error) {
	if !kind.Valid() {
		return Ref{}, herrors.New(herrors.ErrCodeInvalidInput, "unknown artifact kind %q", kind)
	}
	safe, err := herrors.ValidateFilename(filename)
	if err != nil {
		return Ref{}, err
	}
	stem := strings.TrimSuffix(safe, filepath.Ext(safe))
	if stem == "" {
		stem = safe
	}

	ref := Ref{Kind: kind}
	switch kind {
	case KindCompressed:
		ref.Name = uuid.NewString() + ".bin"
		ref.Filename = stem + ".bin"
	case KindDecompressed:
		ref.Name = uuid.NewString() + ".txt"
		ref.Filename = stem + "_decompressed.txt"
	}
	return ref, nil
}

func validate(kind Kind, name string) error {
	if !kind.Valid() {
		return herrors.New(herrors.ErrCodeInvalidInput, "unknown artifact kind %q", kind)
	}
	return herrors.ValidateArtifactName(name)
}
