package cli

import (
	"errors"

	"github.com/wikilinx/wikilinx/internal/catalog"
	"github.com/wikilinx/wikilinx/internal/idtable"
	"github.com/wikilinx/wikilinx/internal/menu"
	"github.com/wikilinx/wikilinx/internal/resolver"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	ErrItemNotFound   = "ITEM_NOT_FOUND"
	ErrNoMapping      = "NO_MAPPING"
	ErrOutOfRange     = "OUT_OF_RANGE"
	ErrNoDatabasePage = "NO_DATABASE_PAGE"
	ErrNoIDTable      = "ID_TABLE_MISSING"
	ErrConfigInvalid  = "CONFIG_INVALID"
	ErrCatalogError   = "CATALOG_ERROR"
	ErrOpenFailed     = "OPEN_FAILED"
	ErrInvalidInput   = "INVALID_INPUT"
	ErrInternal       = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnNotification  = "NOTIFICATION"
	WarnSettingsFile  = "SETTINGS_UNREADABLE"
	WarnInvalidSelect = "INVALID_VALUE"
)

// errorCode maps domain errors to stable codes. Specific causes win over
// their wrappers: a missing database page caused by a blank line reports
// NO_MAPPING.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, resolver.ErrItemNotFound), errors.Is(err, catalog.ErrNotFound):
		return ErrItemNotFound
	case errors.Is(err, idtable.ErrNoMapping):
		return ErrNoMapping
	case errors.Is(err, idtable.ErrOutOfRange), errors.Is(err, idtable.ErrInvalidIndex):
		return ErrOutOfRange
	case errors.Is(err, menu.ErrNoDatabasePage):
		return ErrNoDatabasePage
	case errors.Is(err, errNoIDTable):
		return ErrNoIDTable
	case errors.Is(err, errOpen):
		return ErrOpenFailed
	case errors.Is(err, errCatalog):
		return ErrCatalogError
	default:
		return ErrInternal
	}
}
