package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ecomeli/verde/internal/services/session"
	"github.com/ecomeli/verde/internal/services/storefront"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type homeData struct {
	Flashes []session.Flash
}

type productsData struct {
	Flashes []session.Flash
	Page    *storefront.ProductsPage
	// PrevPage and NextPage are 0 when out of range
	PrevPage int
	NextPage int
}

func renderHome(w http.ResponseWriter, flashes []session.Flash) {
	renderTemplate(w, "index.html", homeData{Flashes: flashes})
}

func renderProducts(w http.ResponseWriter, flashes []session.Flash, page *storefront.ProductsPage) {
	data := productsData{
		Flashes: flashes,
		Page:    page,
	}
	if page.Page > 1 {
		data.PrevPage = page.Page - 1
	}
	if page.Page < page.Pages {
		data.NextPage = page.Page + 1
	}
	renderTemplate(w, "products.html", data)
}

func renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
