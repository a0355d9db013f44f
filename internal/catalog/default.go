package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

func equity(id, symbol, name, sector string, price, changePct float64) domain.Instrument {
	return domain.Instrument{
		ID:                 id,
		Symbol:             symbol,
		Name:               name,
		Sector:             sector,
		Class:              domain.AssetClassEquity,
		ReferencePrice:     decimal.NewFromFloat(price),
		ReferenceChangePct: decimal.NewFromFloat(changePct),
	}
}

func crypto(id, symbol, name, sector string, price, changePct float64) domain.Instrument {
	return domain.Instrument{
		ID:                 id,
		Symbol:             symbol,
		Name:               name,
		Sector:             sector,
		Class:              domain.AssetClassCrypto,
		ReferencePrice:     decimal.NewFromFloat(price),
		ReferenceChangePct: decimal.NewFromFloat(changePct),
	}
}

// Default returns the built-in universe: 25 NSE equities and 20 crypto pairs.
func Default() *Catalog {
	instruments := []domain.Instrument{
		equity("s1", "NSE:RELIANCE", "Reliance Industries", "Energy", 2847.50, 1.23),
		equity("s2", "NSE:TCS", "Tata Consultancy Services", "IT", 3921.75, -0.87),
		equity("s3", "NSE:HDFCBANK", "HDFC Bank", "Banking", 1654.30, 0.54),
		equity("s4", "NSE:INFY", "Infosys", "IT", 1489.60, -1.12),
		equity("s5", "NSE:HINDUNILVR", "Hindustan Unilever", "FMCG", 2378.90, 0.78),
		equity("s6", "NSE:ICICIBANK", "ICICI Bank", "Banking", 1089.45, 1.45),
		equity("s7", "NSE:SBIN", "State Bank of India", "Banking", 812.30, 2.11),
		equity("s8", "NSE:BHARTIARTL", "Bharti Airtel", "Telecom", 1723.80, 0.33),
		equity("s9", "NSE:ITC", "ITC Limited", "FMCG", 453.20, -0.45),
		equity("s10", "NSE:KOTAKBANK", "Kotak Mahindra Bank", "Banking", 1876.55, 0.91),
		equity("s11", "NSE:LT", "Larsen & Toubro", "Infrastructure", 3564.10, 1.67),
		equity("s12", "NSE:AXISBANK", "Axis Bank", "Banking", 1134.75, -0.23),
		equity("s13", "NSE:WIPRO", "Wipro", "IT", 567.40, -1.89),
		equity("s14", "NSE:MARUTI", "Maruti Suzuki India", "Auto", 12450.00, 0.66),
		equity("s15", "NSE:SUNPHARMA", "Sun Pharmaceutical", "Pharma", 1678.25, 1.34),
		equity("s16", "NSE:HCLTECH", "HCL Technologies", "IT", 1789.50, 0.44),
		equity("s17", "NSE:TATAMOTORS", "Tata Motors", "Auto", 967.80, 3.21),
		equity("s18", "NSE:ONGC", "Oil & Natural Gas Corp", "Energy", 276.45, -0.78),
		equity("s19", "NSE:POWERGRID", "Power Grid Corporation", "Utilities", 327.60, 0.98),
		equity("s20", "NSE:NTPC", "NTPC Limited", "Utilities", 389.25, 1.56),
		equity("s21", "NSE:BAJFINANCE", "Bajaj Finance", "Finance", 7234.80, -1.23),
		equity("s22", "NSE:TITAN", "Titan Company", "Consumer", 3456.70, 2.34),
		equity("s23", "NSE:ASIANPAINT", "Asian Paints", "Consumer", 2987.30, -0.56),
		equity("s24", "NSE:ULTRACEMCO", "UltraTech Cement", "Materials", 11234.50, 0.89),
		equity("s25", "NSE:NESTLEIND", "Nestlé India", "FMCG", 24567.00, 0.34),
		crypto("c1", "BINANCE:BTCUSDT", "Bitcoin", "Layer 1", 67432.50, 2.34),
		crypto("c2", "BINANCE:ETHUSDT", "Ethereum", "Layer 1", 3456.78, -1.23),
		crypto("c3", "BINANCE:BNBUSDT", "BNB", "Exchange", 567.34, 0.78),
		crypto("c4", "BINANCE:SOLUSDT", "Solana", "Layer 1", 189.45, 4.56),
		crypto("c5", "BINANCE:XRPUSDT", "XRP", "Payments", 0.6234, -2.11),
		crypto("c6", "BINANCE:ADAUSDT", "Cardano", "Layer 1", 0.4891, 1.67),
		crypto("c7", "BINANCE:AVAXUSDT", "Avalanche", "Layer 1", 38.76, -3.45),
		crypto("c8", "BINANCE:DOGEUSDT", "Dogecoin", "Meme", 0.1456, 5.67),
		crypto("c9", "BINANCE:DOTUSDT", "Polkadot", "Interop", 7.89, -0.89),
		crypto("c10", "BINANCE:MATICUSDT", "Polygon", "Layer 2", 0.8923, 2.34),
		crypto("c11", "BINANCE:LINKUSDT", "Chainlink", "Oracle", 14.56, 3.21),
		crypto("c12", "BINANCE:UNIUSDT", "Uniswap", "DeFi", 10.23, -1.56),
		crypto("c13", "BINANCE:LTCUSDT", "Litecoin", "Payments", 87.45, 0.45),
		crypto("c14", "BINANCE:ATOMUSDT", "Cosmos", "Interop", 9.67, -2.34),
		crypto("c15", "BINANCE:NEARUSDT", "NEAR Protocol", "Layer 1", 5.34, 1.23),
		crypto("c16", "BINANCE:FTMUSDT", "Fantom", "Layer 1", 0.7823, 6.78),
		crypto("c17", "BINANCE:ALGOUSDT", "Algorand", "Layer 1", 0.1967, -0.34),
		crypto("c18", "BINANCE:ICPUSDT", "Internet Computer", "Web3", 12.34, 2.89),
		crypto("c19", "BINANCE:APTUSDT", "Aptos", "Layer 1", 9.45, -4.56),
		crypto("c20", "BINANCE:ARBUSDT", "Arbitrum", "Layer 2", 1.23, 3.67),
	}

	cat, err := New(instruments)
	if err != nil {
		// the built-in list is validated by tests, this cannot happen at runtime
		panic(err)
	}
	return cat
}
