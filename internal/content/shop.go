package content

// ShopEntry — позиция ассортимента торговца в замке.
type ShopEntry struct {
	ItemID string
	Price  int
}

// ShopStock — что продает торговец. Ассортимент фиксированный,
// расходники дешевые, экипировка заметно дороже добытой в бою.
var ShopStock = []ShopEntry{
	{ItemID: "health_potion", Price: 15},
	{ItemID: "large_health_potion", Price: 40},
	{ItemID: "mana_potion", Price: 15},
	{ItemID: "iron_sword", Price: 120},
	{ItemID: "iron_dagger", Price: 100},
	{ItemID: "longbow", Price: 120},
	{ItemID: "wooden_shield", Price: 80},
	{ItemID: "leather_cap", Price: 60},
	{ItemID: "leather_armor", Price: 90},
	{ItemID: "leather_leggings", Price: 70},
	{ItemID: "leather_boots", Price: 50},
	{ItemID: "scroll_minor_heal", Price: 75},
}

// ShopPrice возвращает цену позиции. false — торговец этим не торгует.
func ShopPrice(itemID string) (int, bool) {
	for _, e := range ShopStock {
		if e.ItemID == itemID {
			return e.Price, true
		}
	}
	return 0, false
}
