package dto

// SortOption opción de orden ofrecida por el catálogo.
type SortOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SortOptions opciones en el orden en que se muestran.
var SortOptions = []SortOption{
	{Value: "relevance", Label: "Relevancia"},
	{Value: "recent", Label: "Más recientes"},
	{Value: "price-asc", Label: "Precio: bajo → alto"},
	{Value: "price-desc", Label: "Precio: alto → bajo"},
	{Value: "name", Label: "Nombre A → Z"},
}

// CatalogFilters filtros aplicados, devueltos tal como se interpretaron.
type CatalogFilters struct {
	Categories []string `json:"categories"`
	Query      string   `json:"q"`
	Sort       string   `json:"sort"`
	MinPrice   *string  `json:"min_price"`
	MaxPrice   *string  `json:"max_price"`
}

// CatalogView vista del catálogo.
type CatalogView struct {
	Products    []ProductResponse `json:"products"`
	Categories  []string          `json:"categories"`
	Total       int               `json:"total"`
	Filters     CatalogFilters    `json:"filters"`
	SortOptions []SortOption      `json:"sort_options"`
}

// HomeView vista de inicio. Fallback indica que se usaron los destacados fijos.
type HomeView struct {
	Featured []ProductResponse `json:"featured"`
	Fallback bool              `json:"fallback"`
}

// ProductDetailView vista de detalle de producto.
type ProductDetailView struct {
	Product ProductResponse   `json:"product"`
	Gallery []string          `json:"gallery"`
	Related []ProductResponse `json:"related"`
}

// InfoCard bloque de texto con título (valores, datos de contacto, FAQ).
type InfoCard struct {
	Title       string `json:"title"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description"`
}

// AboutView contenido estático de "Acerca de".
type AboutView struct {
	Eyebrow  string     `json:"eyebrow"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Values   []InfoCard `json:"values"`
	Mission  InfoCard   `json:"mission"`
}

// ContactView contenido estático de "Contacto".
type ContactView struct {
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Channels []InfoCard `json:"channels"`
	Business InfoCard   `json:"business"`
	FAQ      []InfoCard `json:"faq"`
}
