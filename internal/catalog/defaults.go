package catalog

// DefaultCategories is used until the backend returns its own list.
var DefaultCategories = []Category{
	{ID: "alimentacao", Name: "Alimentação", Icon: "🍔"},
	{ID: "saude", Name: "Saúde", Icon: "💊"},
	{ID: "beleza", Name: "Beleza", Icon: "💇"},
	{ID: "pets", Name: "Pets", Icon: "🐶"},
	{ID: "servicos", Name: "Serviços", Icon: "🔧"},
	{ID: "moda", Name: "Moda", Icon: "👗"},
	{ID: "educacao", Name: "Educação", Icon: "📚"},
	{ID: "automotivo", Name: "Automotivo", Icon: "🚗"},
}

const defaultSubcategoryKey = "default"

var subcategories = map[string][]Subcategory{
	"Alimentação": {
		{Name: "Restaurantes", Icon: "🍽"},
		{Name: "Lanchonetes", Icon: "🍔"},
		{Name: "Pizzarias", Icon: "🍕"},
		{Name: "Padarias", Icon: "🥖"},
		{Name: "Açaí", Icon: "🍧"},
		{Name: "Mercados", Icon: "🛒"},
	},
	"Saúde": {
		{Name: "Farmácias", Icon: "💊"},
		{Name: "Clínicas", Icon: "🏥"},
		{Name: "Dentistas", Icon: "🦷"},
		{Name: "Laboratórios", Icon: "🔬"},
	},
	"Beleza": {
		{Name: "Salões", Icon: "💇"},
		{Name: "Barbearias", Icon: "💈"},
		{Name: "Estética", Icon: "💅"},
		{Name: "Perfumarias", Icon: "🌸"},
	},
	"Pets": {
		{Name: "Pet Shops", Icon: "🦴"},
		{Name: "Veterinários", Icon: "🩺"},
		{Name: "Banho e Tosa", Icon: "🛁"},
	},
	defaultSubcategoryKey: {
		{Name: "Destaques", Icon: "⭐"},
		{Name: "Novidades", Icon: "🆕"},
		{Name: "Promoções", Icon: "🏷"},
		{Name: "Próximos", Icon: "📍"},
	},
}

// SubcategoriesFor returns the tiles for a category name, falling back to
// the generic set when the category has none of its own.
func SubcategoriesFor(name string) []Subcategory {
	if subs, ok := subcategories[name]; ok {
		return subs
	}
	return subcategories[defaultSubcategoryKey]
}

// DefaultBanners are the five slides cycled by the category carousel.
var DefaultBanners = []Banner{
	{ImageURL: "https://picsum.photos/800/300?random=101", Caption: "Ofertas da semana na Freguesia"},
	{ImageURL: "https://picsum.photos/800/300?random=102", Caption: "Cashback em dobro às quartas"},
	{ImageURL: "https://picsum.photos/800/300?random=103", Caption: "Novas lojas no bairro"},
	{ImageURL: "https://picsum.photos/800/300?random=104", Caption: "Delivery grátis acima de R$ 50"},
	{ImageURL: "https://picsum.photos/800/300?random=105", Caption: "Apoie o comércio local"},
}
