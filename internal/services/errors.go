package services

import (
	"github.com/pkg/errors"

	"pdvlocal/internal/repos"
	"pdvlocal/internal/store"
)

var (
	// Fatal at start: no engine is handed to a session.
	ErrStoreUnavailable = store.ErrStoreUnavailable
	ErrSchemaInit       = errors.New("schema initialization failed")

	// Recoverable: the session is left as it was.
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCode     = errors.New("invalid product code")
	ErrNoOpenSale      = errors.New("no open sale")
	ErrCheckoutPersist = errors.New("checkout could not be persisted")
	ErrSnapshotExport  = repos.ErrSnapshotExport
)
