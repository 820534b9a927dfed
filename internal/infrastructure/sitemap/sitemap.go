// Package sitemap genera sitemap.xml (protocolo sitemaps.org 0.9) para las páginas públicas.
package sitemap

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/aura-storefront/internal/domain/entity"
)

const namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type page struct {
	path       string
	changefreq string
	priority   string
}

// staticPages rutas fijas de la tienda.
var staticPages = []page{
	{"/", "daily", "1.0"},
	{"/products", "daily", "0.9"},
	{"/about", "monthly", "0.5"},
	{"/contact", "monthly", "0.5"},
}

// Build una entrada por página estática y otra por producto activo (/products/{id}).
func Build(baseURL string, products []entity.Product) ([]byte, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("sitemap: base URL vacía")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", namespace)

	for _, p := range staticPages {
		addURL(urlset, baseURL+p.path, nil, p.changefreq, p.priority)
	}
	for _, p := range products {
		addURL(urlset, fmt.Sprintf("%s/products/%d", baseURL, p.ID), p.CreatedAt, "weekly", "0.7")
	}

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("sitemap: serializar: %w", err)
	}
	return out.Bytes(), nil
}

func addURL(urlset *etree.Element, loc string, lastmod *time.Time, changefreq, priority string) {
	u := urlset.CreateElement("url")
	u.CreateElement("loc").SetText(loc)
	if lastmod != nil && !lastmod.IsZero() {
		u.CreateElement("lastmod").SetText(lastmod.UTC().Format("2006-01-02"))
	}
	u.CreateElement("changefreq").SetText(changefreq)
	u.CreateElement("priority").SetText(priority)
}
