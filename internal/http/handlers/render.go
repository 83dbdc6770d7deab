package handlers

import (
	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"pdvlocal/internal/money"
)

// NewViews loads the templates under dir with the helpers they use.
func NewViews(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("brl", money.Format)
	return engine
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		data["RequestID"] = rid
	}
	return c.Render(tmpl, data)
}
