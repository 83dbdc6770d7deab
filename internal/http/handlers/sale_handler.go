package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"pdvlocal/internal/domain"
	applog "pdvlocal/internal/log"
	"pdvlocal/internal/money"
	"pdvlocal/internal/services"
)

// SnapshotFile is the download name of the exported database.
const SnapshotFile = "banco.sqlite"

type SaleHandler struct {
	Session *services.SaleSession
}

// ---------- HTML screen ----------

func (h *SaleHandler) Screen(c *fiber.Ctx) error {
	return h.screen(c, fiber.StatusOK, fiber.Map{})
}

func (h *SaleHandler) screen(c *fiber.Ctx, status int, data fiber.Map) error {
	scr, err := h.Session.Screen(c.UserContext())
	if err != nil {
		applog.Error(c, "sale.screen.fail", err, nil)
		code, msg := statusFor(err)
		return render(c.Status(code), "notfound", fiber.Map{"Message": msg})
	}
	data["Screen"] = scr
	if _, ok := data["Code"]; !ok {
		data["Code"] = ""
	}
	return render(c.Status(status), "pos", data)
}

func (h *SaleHandler) Scan(c *fiber.Ctx) error {
	code := c.FormValue("code")
	if _, err := h.Session.AddProductByCode(c.UserContext(), code); err != nil {
		status, msg := statusFor(err)
		if status == fiber.StatusBadRequest {
			applog.Security(c, "validation.fail", map[string]any{"field": "code"})
		}
		return h.screen(c, status, fiber.Map{"Err": msg, "Code": code})
	}
	return c.Redirect("/")
}

func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	r, err := h.Session.Checkout(c.UserContext())
	if err != nil {
		status, msg := statusFor(err)
		return h.screen(c, status, fiber.Map{"Err": msg})
	}
	return h.screen(c, fiber.StatusOK, fiber.Map{"Receipt": r})
}

// Export streams the current database image as a download.
func (h *SaleHandler) Export(c *fiber.Ctx) error {
	image, err := h.Session.ExportSnapshot(c.UserContext())
	if err != nil {
		status, msg := statusFor(err)
		return c.Status(status).SendString(msg)
	}
	applog.Audit(c, "snapshot.download", map[string]any{"bytes": len(image)})
	c.Attachment(SnapshotFile)
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(image)
}

// ---------- JSON API ----------

type saleView struct {
	domain.Screen
	TotalDisplay string `json:"total_display"`
}

func viewOf(scr domain.Screen) saleView {
	return saleView{Screen: scr, TotalDisplay: money.Format(scr.Total)}
}

func (h *SaleHandler) Sale(c *fiber.Ctx) error {
	scr, err := h.Session.Screen(c.UserContext())
	if err != nil {
		applog.Error(c, "sale.view.fail", err, nil)
		return jsonError(c, err)
	}
	return c.JSON(viewOf(scr))
}

type scanRequest struct {
	Code string `json:"code" form:"code"`
}

func (h *SaleHandler) APIScan(c *fiber.Ctx) error {
	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	res, err := h.Session.AddProductByCode(c.UserContext(), req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			applog.Security(c, "validation.fail", map[string]any{"field": "code"})
		}
		return jsonError(c, err)
	}
	scr, err := h.Session.Screen(c.UserContext())
	if err != nil {
		applog.Error(c, "sale.view.fail", err, nil)
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"scan": res, "sale": viewOf(scr)})
}

func (h *SaleHandler) APICheckout(c *fiber.Ctx) error {
	r, err := h.Session.Checkout(c.UserContext())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{
		"sale_id":       r.SaleID,
		"total":         r.Total,
		"total_display": money.Format(r.Total),
		"items":         r.Items,
	})
}

// History lists earlier sales, newest first.
func (h *SaleHandler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		applog.Security(c, "validation.fail", map[string]any{"field": "limit"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be between 1 and 500"})
	}
	sales, err := h.Session.History(c.UserContext(), limit)
	if err != nil {
		applog.Error(c, "sale.history.fail", err, nil)
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"sales": sales, "count": len(sales)})
}
