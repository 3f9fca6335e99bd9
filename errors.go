package cms

import (
	"github.com/goliatone/go-cms-delivery/internal/backends/markdown"
	"github.com/goliatone/go-cms-delivery/internal/delivery"
	"github.com/goliatone/go-cms-delivery/internal/di"
	"github.com/goliatone/go-cms-delivery/internal/validation"
)

var (
	// ErrFetchFailed matches every *FetchError through errors.Is.
	ErrFetchFailed         = delivery.ErrFetchFailed
	ErrBackendUnavailable  = delivery.ErrBackendUnavailable
	ErrPageIDRequired      = delivery.ErrPageIDRequired
	ErrMarkdownUnavailable = delivery.ErrMarkdownUnavailable

	ErrCustomBackendRequired = di.ErrCustomBackendRequired
	ErrFilesystemRequired    = markdown.ErrFilesystemRequired
	// ErrFixtureInvalid matches fixture documents rejected by the memory
	// backend schema.
	ErrFixtureInvalid = validation.ErrSchemaValidation
)
