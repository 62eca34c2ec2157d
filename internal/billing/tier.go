package billing

// Tier — тариф премиум-подписки. Определяется один раз на границе с каталогом
// биллинг-провайдера по идентификатору купленной цены, дальше по коду ходит
// enum, а не строка price id.
type Tier int

// Тарифы WorkNow.
const (
	TierFree Tier = iota
	TierPremium
	TierDeluxe
)

func (t Tier) String() string {
	switch t {
	case TierPremium:
		return "premium"
	case TierDeluxe:
		return "deluxe"
	default:
		return "free"
	}
}

// Catalog сопоставляет идентификаторы цен Stripe с тарифами.
type Catalog struct {
	defaultPriceID string
	deluxePriceID  string
}

// NewCatalog создаёт каталог из сконфигурированных идентификаторов цен.
func NewCatalog(defaultPriceID, deluxePriceID string) Catalog {
	return Catalog{
		defaultPriceID: defaultPriceID,
		deluxePriceID:  deluxePriceID,
	}
}

// Resolve возвращает тариф для идентификатора цены. Пустой идентификатор
// означает, что покупка не состоялась.
func (c Catalog) Resolve(priceID string) Tier {
	switch priceID {
	case "":
		return TierFree
	case c.deluxePriceID:
		return TierDeluxe
	default:
		return TierPremium
	}
}

// DefaultPriceID возвращает цену обычного премиума, используется когда клиент
// не передал идентификатор явно.
func (c Catalog) DefaultPriceID() string {
	return c.defaultPriceID
}
