package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContentStatus represents the publication state of a content entry
type ContentStatus string

// Possible content status values
const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// Common validation errors for Content
var (
	ErrEmptyContentID       = errors.New("content ID cannot be empty")
	ErrEmptyContentUserID   = errors.New("content user ID cannot be empty")
	ErrEmptyContentTitle    = errors.New("content title cannot be empty")
	ErrEmptyContentBody     = errors.New("content body cannot be empty")
	ErrInvalidContentStatus = errors.New("invalid content status")
)

// Content represents an authored entry owned by a user. New entries start
// as drafts and move to published or archived.
type Content struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Status    ContentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewContent creates a new Content entry with the given owner, title and body.
// It generates a new UUID for the content ID, sets the status to draft,
// and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewContent(userID uuid.UUID, title, body string) (*Content, error) {
	content := &Content{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Status:    ContentStatusDraft,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}

	return content, nil
}

// Validate checks if the Content has valid data.
// Returns an error if any field fails validation.
func (c *Content) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyContentID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyContentUserID
	}

	if c.Title == "" {
		return ErrEmptyContentTitle
	}

	if c.Body == "" {
		return ErrEmptyContentBody
	}

	if !isValidContentStatus(c.Status) {
		return ErrInvalidContentStatus
	}

	return nil
}

// UpdateStatus transitions the content to the given status and refreshes
// the update timestamp. Returns ErrInvalidContentStatus for unknown values.
func (c *Content) UpdateStatus(status ContentStatus) error {
	if !isValidContentStatus(status) {
		return ErrInvalidContentStatus
	}

	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidContentStatus checks if the given status is one of the defined values.
func isValidContentStatus(status ContentStatus) bool {
	switch status {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusArchived:
		return true
	default:
		return false
	}
}
