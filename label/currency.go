package label

const (
	USD Symbol = "USD"
	EUR Symbol = "EUR"
	GBP Symbol = "GBP"
	JPY Symbol = "JPY"
	AUD Symbol = "AUD"
	CAD Symbol = "CAD"
	CHF Symbol = "CHF"
	CNY Symbol = "CNY"
	INR Symbol = "INR"
	MXN Symbol = "MXN"
	BRL Symbol = "BRL"
	KRW Symbol = "KRW"
	SGD Symbol = "SGD"
	HKD Symbol = "HKD"
	NOK Symbol = "NOK"
	SEK Symbol = "SEK"
	DKK Symbol = "DKK"
	NZD Symbol = "NZD"
	ZAR Symbol = "ZAR"
	TRY Symbol = "TRY"
	PLN Symbol = "PLN"
	THB Symbol = "THB"
	IDR Symbol = "IDR"
	HUF Symbol = "HUF"
	CZK Symbol = "CZK"
	ILS Symbol = "ILS"
	PHP Symbol = "PHP"
	MYR Symbol = "MYR"
	RON Symbol = "RON"
	BGN Symbol = "BGN"
	RUB Symbol = "RUB"
	AED Symbol = "AED"
)

var ordered = []Symbol{
	USD, EUR, GBP, JPY, AUD, CAD, CHF, CNY, INR, MXN, BRL, KRW, SGD, HKD, NOK, SEK,
	DKK, NZD, ZAR, TRY, PLN, THB, IDR, HUF, CZK, ILS, PHP, MYR, RON, BGN, RUB, AED,
}

var Currencies = map[Symbol]Currency{
	USD: {Symbol: USD, Name: "US Dollar", Sign: "$", Flag: "🇺🇸"},
	EUR: {Symbol: EUR, Name: "Euro", Sign: "€", Flag: "🇪🇺"},
	GBP: {Symbol: GBP, Name: "British Pound", Sign: "£", Flag: "🇬🇧"},
	JPY: {Symbol: JPY, Name: "Japanese Yen", Sign: "¥", Flag: "🇯🇵"},
	AUD: {Symbol: AUD, Name: "Australian Dollar", Sign: "A$", Flag: "🇦🇺"},
	CAD: {Symbol: CAD, Name: "Canadian Dollar", Sign: "C$", Flag: "🇨🇦"},
	CHF: {Symbol: CHF, Name: "Swiss Franc", Sign: "Fr", Flag: "🇨🇭"},
	CNY: {Symbol: CNY, Name: "Chinese Yuan", Sign: "¥", Flag: "🇨🇳"},
	INR: {Symbol: INR, Name: "Indian Rupee", Sign: "₹", Flag: "🇮🇳"},
	MXN: {Symbol: MXN, Name: "Mexican Peso", Sign: "$", Flag: "🇲🇽"},
	BRL: {Symbol: BRL, Name: "Brazilian Real", Sign: "R$", Flag: "🇧🇷"},
	KRW: {Symbol: KRW, Name: "South Korean Won", Sign: "₩", Flag: "🇰🇷"},
	SGD: {Symbol: SGD, Name: "Singapore Dollar", Sign: "S$", Flag: "🇸🇬"},
	HKD: {Symbol: HKD, Name: "Hong Kong Dollar", Sign: "HK$", Flag: "🇭🇰"},
	NOK: {Symbol: NOK, Name: "Norwegian Krone", Sign: "kr", Flag: "🇳🇴"},
	SEK: {Symbol: SEK, Name: "Swedish Krona", Sign: "kr", Flag: "🇸🇪"},
	DKK: {Symbol: DKK, Name: "Danish Krone", Sign: "kr", Flag: "🇩🇰"},
	NZD: {Symbol: NZD, Name: "New Zealand Dollar", Sign: "NZ$", Flag: "🇳🇿"},
	ZAR: {Symbol: ZAR, Name: "South African Rand", Sign: "R", Flag: "🇿🇦"},
	TRY: {Symbol: TRY, Name: "Turkish Lira", Sign: "₺", Flag: "🇹🇷"},
	PLN: {Symbol: PLN, Name: "Polish Zloty", Sign: "zł", Flag: "🇵🇱"},
	THB: {Symbol: THB, Name: "Thai Baht", Sign: "฿", Flag: "🇹🇭"},
	IDR: {Symbol: IDR, Name: "Indonesian Rupiah", Sign: "Rp", Flag: "🇮🇩"},
	HUF: {Symbol: HUF, Name: "Hungarian Forint", Sign: "Ft", Flag: "🇭🇺"},
	CZK: {Symbol: CZK, Name: "Czech Koruna", Sign: "Kč", Flag: "🇨🇿"},
	ILS: {Symbol: ILS, Name: "Israeli Shekel", Sign: "₪", Flag: "🇮🇱"},
	PHP: {Symbol: PHP, Name: "Philippine Peso", Sign: "₱", Flag: "🇵🇭"},
	MYR: {Symbol: MYR, Name: "Malaysian Ringgit", Sign: "RM", Flag: "🇲🇾"},
	RON: {Symbol: RON, Name: "Romanian Leu", Sign: "lei", Flag: "🇷🇴"},
	BGN: {Symbol: BGN, Name: "Bulgarian Lev", Sign: "лв", Flag: "🇧🇬"},
	RUB: {Symbol: RUB, Name: "Russian Ruble", Sign: "₽", Flag: "🇷🇺"},
	AED: {Symbol: AED, Name: "UAE Dirham", Sign: "د.إ", Flag: "🇦🇪"},
}

// Names maps display names to symbols, used by sources that publish names instead of codes
var Names = func() map[string]Symbol {
	m := make(map[string]Symbol, len(Currencies))
	for s, c := range Currencies {
		m[c.Name] = s
	}

	return m
}()
