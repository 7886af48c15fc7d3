package handler

import (
	"embed"
	"html/template"
	"time"

	sharedmodels "flightlink/shared/models"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"selected": func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	},
}).ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Form    sharedmodels.SearchForm
	Warning string
	Result  *sharedmodels.SearchResult
	Sites   []sharedmodels.Site
	Classes []sharedmodels.CabinClass
}

func FormHandler(c *fiber.Ctx) error {
	form := sharedmodels.SearchForm{
		Date:       today().Format(time.DateOnly),
		Passengers: 1,
		Class:      string(sharedmodels.Economy),
		Sites:      []string{string(sharedmodels.MakeMyTrip)},
	}
	return renderPage(c, fiber.StatusOK, pageData{Form: form})
}

func renderPage(c *fiber.Ctx, status int, data pageData) error {
	data.Sites = sharedmodels.AllSites
	data.Classes = sharedmodels.AllCabinClasses

	c.Status(status)
	c.Type("html", "utf-8")
	return pages.ExecuteTemplate(c, "index.html", data)
}
