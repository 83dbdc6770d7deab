package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pdvlocal/internal/domain"
	applog "pdvlocal/internal/log"
	"pdvlocal/internal/money"
	"pdvlocal/internal/repos"
	"pdvlocal/internal/store"
	"pdvlocal/internal/validate"
)

// SaleSession owns the engine and the open sale of one checkout terminal.
// All of its methods are safe for concurrent use; they run one at a time.
type SaleSession struct {
	ID string

	mu       sync.Mutex
	engine   *repos.Engine
	prods    *repos.ProductRepo
	sales    *repos.SaleRepo
	catalog  *CatalogService
	store    store.Store
	snapshot func(context.Context) ([]byte, error)
	current  int64 // 0 while no sale is open
	selected *domain.ScanResult

	Now func() time.Time
}

func NewSaleSession(engine *repos.Engine, st store.Store) *SaleSession {
	prods := repos.NewProductRepo(engine)
	return &SaleSession{
		ID:       uuid.NewString(),
		engine:   engine,
		prods:    prods,
		sales:    repos.NewSaleRepo(engine),
		catalog:  NewCatalogService(prods),
		store:    st,
		snapshot: engine.Export,
		Now:      time.Now,
	}
}

// Lookup returns the catalog product with code without touching the open
// sale.
func (s *SaleSession) Lookup(ctx context.Context, code string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Lookup(ctx, code)
}

// Search lists catalog products matching q.
func (s *SaleSession) Search(ctx context.Context, q string, limit int) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Search(ctx, q, limit)
}

// CurrentSale returns the id of the open sale, if any.
func (s *SaleSession) CurrentSale() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != 0
}

// Selected returns the result of the last scan of the open sale.
func (s *SaleSession) Selected() (domain.ScanResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return domain.ScanResult{}, false
	}
	return *s.selected, true
}

// AddProductByCode adds one unit of the product to the open sale, opening a
// sale first when none is. Repeat scans of a code increment its line.
func (s *SaleSession) AddProductByCode(ctx context.Context, code string) (domain.ScanResult, error) {
	code, ok := validate.Code(code)
	if !ok {
		return domain.ScanResult{}, ErrInvalidCode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, found, err := s.prods.ByCode(ctx, code)
	if err != nil {
		return domain.ScanResult{}, errors.Wrap(err, "lookup product")
	}
	if !found {
		applog.Info(nil, "sale.scan.notfound", map[string]any{"session": s.ID, "code": code})
		return domain.ScanResult{}, errors.WithMessagef(ErrProductNotFound, "code %s", code)
	}

	res, err := s.addLine(ctx, p)
	if err != nil {
		applog.Error(nil, "sale.scan.fail", err, map[string]any{"session": s.ID, "code": code})
		return domain.ScanResult{}, err
	}

	s.current = res.SaleID
	s.selected = &res
	applog.Debug(nil, "sale.scan", map[string]any{
		"session": s.ID, "sale_id": res.SaleID, "code": code, "qty": res.Quantity,
	})
	return res, nil
}

// addLine runs the sale/line mutation in one transaction. The session's
// fields are only updated by the caller once it has committed.
func (s *SaleSession) addLine(ctx context.Context, p domain.Product) (domain.ScanResult, error) {
	tx, err := s.engine.DB.BeginTxx(ctx, nil)
	if err != nil {
		return domain.ScanResult{}, err
	}
	defer func() { _ = tx.Rollback() }()
	sales := s.sales.WithTx(tx)

	saleID := s.current
	if saleID == 0 {
		if saleID, err = sales.Create(ctx, s.Now().UTC().Format(time.RFC3339)); err != nil {
			return domain.ScanResult{}, errors.Wrap(err, "open sale")
		}
	}

	res := domain.ScanResult{SaleID: saleID, Product: p}
	line, exists, err := sales.FindLine(ctx, saleID, p.Code)
	if err != nil {
		return domain.ScanResult{}, errors.Wrap(err, "find line")
	}
	if exists {
		// The captured unit price wins over the current catalog price.
		res.Quantity = line.Quantity + 1
		res.UnitPrice = line.UnitPrice
		res.Subtotal = money.Subtotal(res.Quantity, line.UnitPrice)
		err = sales.UpdateLine(ctx, line.ID, res.Quantity, res.Subtotal)
	} else {
		res.Quantity = 1
		res.UnitPrice = p.UnitPrice
		res.Subtotal = money.Subtotal(1, p.UnitPrice)
		_, err = sales.InsertLine(ctx, domain.SaleLine{
			SaleID:      saleID,
			ProductCode: p.Code,
			Description: p.Description,
			Quantity:    res.Quantity,
			UnitPrice:   res.UnitPrice,
			Subtotal:    res.Subtotal,
		})
	}
	if err != nil {
		return domain.ScanResult{}, errors.Wrap(err, "write line")
	}
	if err := tx.Commit(); err != nil {
		return domain.ScanResult{}, errors.Wrap(err, "commit scan")
	}
	return res, nil
}

// Screen projects the open sale for display.
func (s *SaleSession) Screen(ctx context.Context) (domain.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scr, err := Project(ctx, s.sales, s.current)
	if err != nil {
		return domain.Screen{}, err
	}
	if s.selected != nil {
		sel := *s.selected
		scr.Selected = &sel
	}
	return scr, nil
}

// Checkout finalizes the open sale: its total is written, the engine image
// is persisted and the session is reset. When persisting fails the sale
// stays open and Checkout may be retried.
func (s *SaleSession) Checkout(ctx context.Context) (domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == 0 {
		return domain.Receipt{}, ErrNoOpenSale
	}
	saleID := s.current

	scr, err := Project(ctx, s.sales, saleID)
	if err != nil {
		return domain.Receipt{}, errors.Wrap(err, "project sale")
	}
	prev, err := s.sales.Get(ctx, saleID)
	if err != nil {
		return domain.Receipt{}, errors.Wrap(err, "load sale")
	}
	if err := s.sales.SetTotal(ctx, saleID, scr.Total); err != nil {
		return domain.Receipt{}, errors.Wrap(err, "write total")
	}

	image, err := s.snapshot(ctx)
	if err == nil {
		err = s.store.Save(ctx, image)
	}
	if err != nil {
		// Not finalized: put the open total back so the engine agrees with
		// the session.
		if rerr := s.sales.SetTotal(context.WithoutCancel(ctx), saleID, prev.Total); rerr != nil {
			applog.Error(nil, "sale.checkout.revert.fail", rerr, map[string]any{"session": s.ID, "sale_id": saleID})
		}
		applog.Error(nil, "sale.checkout.fail", err, map[string]any{"session": s.ID, "sale_id": saleID})
		return domain.Receipt{}, errors.Wrapf(fmt.Errorf("%w: %v", ErrCheckoutPersist, err), "sale %d", saleID)
	}

	items := 0
	for _, l := range scr.Lines {
		items += l.Quantity
	}
	s.current = 0
	s.selected = nil

	applog.Audit(nil, "sale.checkout", map[string]any{
		"session": s.ID,
		"sale_id": saleID,
		"total":   scr.Total,
		"items":   items,
		"image":   humanize.Bytes(uint64(len(image))),
	})
	return domain.Receipt{SaleID: saleID, Total: scr.Total, Items: items}, nil
}

// ExportSnapshot returns the engine image for download. The session is not
// affected.
func (s *SaleSession) ExportSnapshot(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	image, err := s.snapshot(ctx)
	if err != nil {
		applog.Error(nil, "snapshot.export.fail", err, map[string]any{"session": s.ID})
		return nil, err
	}
	applog.Info(nil, "snapshot.export", map[string]any{"session": s.ID, "image": humanize.Bytes(uint64(len(image)))})
	return image, nil
}

// History lists finalized sales, newest first.
func (s *SaleSession) History(ctx context.Context, limit int) ([]repos.SaleSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sales.ListLatest(ctx, limit, s.current)
}

// Close releases the engine.
func (s *SaleSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Close()
}
