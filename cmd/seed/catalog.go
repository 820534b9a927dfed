package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedProduct fila del CSV ya validada.
type seedProduct struct {
	Name        string
	Description string
	Price       decimal.NullDecimal
	Category    string
	ImageURL    string
	ImageURL2   string
	Active      bool
}

// columnas aceptadas (cabecera obligatoria; el orden es libre)
var columnAliases = map[string]string{
	"nombre":      "name",
	"name":        "name",
	"descripcion": "description",
	"descripción": "description",
	"description": "description",
	"precio":      "price",
	"price":       "price",
	"categoria":   "category",
	"categoría":   "category",
	"category":    "category",
	"imagen":      "image_url",
	"image_url":   "image_url",
	"imagen2":     "image_url_2",
	"image_url_2": "image_url_2",
	"activo":      "is_active",
	"is_active":   "is_active",
}

// decodeInput devuelve el contenido en UTF-8. encoding: auto, utf-8 o latin1.
// En auto se asume ISO-8859-1 si el contenido no es UTF-8 válido (exportaciones de Excel).
func decodeInput(raw []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "utf-8", "utf8":
		return bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")), nil
	case "latin1", "iso-8859-1", "iso8859-1":
	case "", "auto":
		if utf8.Valid(raw) {
			return bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")), nil
		}
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", encoding)
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	return out, err
}

// parseCatalogCSV lee el CSV separado por punto y coma.
func parseCatalogCSV(r io.Reader) ([]seedProduct, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	index := map[string]int{}
	for i, h := range header {
		if col, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			index[col] = i
		}
	}
	for _, required := range []string{"name", "category"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q en la cabecera", required)
		}
	}

	var out []seedProduct
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}

		p := seedProduct{
			Name:        field("name"),
			Description: field("description"),
			Category:    field("category"),
			ImageURL:    field("image_url"),
			ImageURL2:   field("image_url_2"),
			Active:      true,
		}
		if p.Name == "" {
			return nil, fmt.Errorf("línea %d: nombre vacío", line)
		}
		if p.Category == "" {
			return nil, fmt.Errorf("línea %d: categoría vacía", line)
		}
		if raw := field("price"); raw != "" {
			d, err := decimal.NewFromString(normalizeDecimal(raw))
			if err != nil {
				return nil, fmt.Errorf("línea %d: precio inválido %q", line, raw)
			}
			p.Price = decimal.NewNullDecimal(d)
		}
		if raw := field("is_active"); raw != "" {
			p.Active, err = parseActive(raw)
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line, err)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// normalizeDecimal acepta "1.234,50", "1234,50" y "1234.50".
func normalizeDecimal(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

func parseActive(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "si", "sí", "s", "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("activo inválido %q", s)
	}
	return b, nil
}

// categoryNames categorías en orden de primera aparición.
func categoryNames(products []seedProduct) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// renderSQL script idempotente para categorías; los productos se insertan resolviendo la
// categoría por nombre.
func renderSQL(w io.Writer, products []seedProduct) error {
	var b strings.Builder
	b.WriteString("-- Catálogo AURA: categorías y productos\n")
	b.WriteString("-- Generado por cmd/seed\n\n")

	cats := categoryNames(products)
	if len(cats) > 0 {
		b.WriteString("-- 1. Categorías\n")
		b.WriteString("INSERT INTO categories (name) VALUES\n")
		for i, c := range cats {
			sep := ","
			if i == len(cats)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  (%s)%s\n", quote(c), sep)
		}
		b.WriteString("ON CONFLICT (name) DO NOTHING;\n\n")
	}

	b.WriteString("-- 2. Productos\n")
	for _, p := range products {
		price := "NULL"
		if p.Price.Valid {
			price = p.Price.Decimal.StringFixed(2)
		}
		fmt.Fprintf(&b, "INSERT INTO products (name, description, price, image_url, image_url_2, category_id, is_active)\n")
		fmt.Fprintf(&b, "SELECT %s, %s, %s, %s, %s, id, %t FROM categories WHERE name = %s;\n",
			quote(p.Name), nullable(p.Description), price,
			nullable(p.ImageURL), nullable(p.ImageURL2), p.Active, quote(p.Category))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}
