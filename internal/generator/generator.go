// Package generator adapts the third-party AI, image and media services
// used to produce content.
package generator

import (
	"context"
	"io"
)

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ImageGenerator turns a prompt into a temporary image URL.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// MediaStore hosts images and applies AI transformations to them.
type MediaStore interface {
	UploadFromURL(ctx context.Context, sourceURL string) (string, error)
	RemoveBackground(ctx context.Context, file File) (string, error)
	RemoveObject(ctx context.Context, file File, object string) (string, error)
}

// ResumeParser extracts plain text from a resume document.
type ResumeParser interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// File is an uploaded file handed to a media store.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}
