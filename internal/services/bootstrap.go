package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"pdvlocal/internal/domain"
	applog "pdvlocal/internal/log"
	"pdvlocal/internal/repos"
	"pdvlocal/internal/store"
)

// Bootstrap returns a ready engine: rehydrated from the stored image when
// there is one, otherwise freshly created, seeded with catalog and persisted.
// On error no engine is returned.
func Bootstrap(ctx context.Context, st store.Store, catalog []domain.Product) (*repos.Engine, error) {
	image, err := st.Load(ctx)
	if err != nil {
		applog.Error(nil, "bootstrap.store.load.fail", err, nil)
		return nil, err
	}
	if image != nil {
		return hydrate(ctx, image)
	}
	return create(ctx, st, catalog)
}

func hydrate(ctx context.Context, image []byte) (*repos.Engine, error) {
	e, err := repos.OpenEngine(ctx, image)
	if err != nil {
		applog.Error(nil, "bootstrap.hydrate.fail", err, nil)
		return nil, schemaInit(err, "hydrate")
	}
	missing, err := repos.MissingTables(ctx, e)
	if err == nil && len(missing) > 0 {
		err = fmt.Errorf("image lacks tables %s", strings.Join(missing, ","))
	}
	if err != nil {
		_ = e.Close()
		applog.Error(nil, "bootstrap.hydrate.fail", err, nil)
		return nil, schemaInit(err, "hydrate")
	}
	applog.Info(nil, "bootstrap.hydrate", map[string]any{"image": humanize.Bytes(uint64(len(image)))})
	return e, nil
}

func create(ctx context.Context, st store.Store, catalog []domain.Product) (*repos.Engine, error) {
	e, err := repos.OpenEngine(ctx, nil)
	if err != nil {
		return nil, schemaInit(err, "open engine")
	}
	fail := func(err error, action string) (*repos.Engine, error) {
		_ = e.Close()
		applog.Error(nil, action, err, nil)
		return nil, err
	}

	if err := repos.EnsureSchema(ctx, e); err != nil {
		return fail(schemaInit(err, "create schema"), "bootstrap.schema.fail")
	}
	if err := repos.SeedCatalog(ctx, e, catalog); err != nil {
		return fail(schemaInit(err, "seed catalog"), "bootstrap.seed.fail")
	}
	image, err := e.Export(ctx)
	if err != nil {
		return fail(schemaInit(err, "export seeded image"), "bootstrap.export.fail")
	}
	if err := st.Save(ctx, image); err != nil {
		return fail(err, "bootstrap.store.save.fail")
	}
	applog.Info(nil, "bootstrap.create", map[string]any{
		"products": len(catalog),
		"image":    humanize.Bytes(uint64(len(image))),
	})
	return e, nil
}

func schemaInit(err error, msg string) error {
	return errors.Wrap(fmt.Errorf("%w: %v", ErrSchemaInit, err), msg)
}
