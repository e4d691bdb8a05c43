package classifier

// Niche names. Normalized market categories used as the first waterfall
// specialization dimension.
const (
	NicheNBA           = "NBA"
	NicheNFL           = "NFL"
	NicheMLB           = "MLB"
	NicheNHL           = "NHL"
	NicheSoccer        = "SOCCER"
	NicheTennis        = "TENNIS"
	NicheMMA           = "MMA"
	NicheGolf          = "GOLF"
	NicheEsports       = "ESPORTS"
	NichePolitics      = "POLITICS"
	NicheCrypto        = "CRYPTO"
	NicheEconomy       = "ECONOMY"
	NicheEntertainment = "ENTERTAINMENT"
	NicheOther         = "OTHER"
)

// Market types (coarse families above niches).
const (
	TypeSports   = "SPORTS"
	TypePolitics = "POLITICS"
	TypeCrypto   = "CRYPTO"
	TypeFinance  = "FINANCE"
	TypeCulture  = "CULTURE"
	TypeOther    = "OTHER"
)

type keywordRule struct {
	niche      string
	marketType string
	keywords   []string
}

// keywordRules is the fixed keyword table applied, in order, to category
// text first and market titles as a last resort. Matching is case-insensitive
// substring match over normalized text. Order matters: the more specific
// sport leagues come before generic terms that could shadow them.
var keywordRules = []keywordRule{
	{NicheNBA, TypeSports, []string{"nba", "basketball"}},
	{NicheNFL, TypeSports, []string{"nfl", "super bowl", "touchdown", "american football"}},
	{NicheMLB, TypeSports, []string{"mlb", "baseball", "world series"}},
	{NicheNHL, TypeSports, []string{"nhl", "hockey", "stanley cup"}},
	{NicheSoccer, TypeSports, []string{"soccer", "premier league", "epl", "la liga", "champions league", "world cup", "fifa"}},
	{NicheTennis, TypeSports, []string{"tennis", "wimbledon", "us open", "grand slam"}},
	{NicheMMA, TypeSports, []string{"ufc", "mma", "boxing", "heavyweight"}},
	{NicheGolf, TypeSports, []string{"golf", "pga", "masters"}},
	{NicheEsports, TypeSports, []string{"esports", "league of legends", "csgo", "dota", "valorant"}},
	{NichePolitics, TypePolitics, []string{"election", "president", "presidential", "senate", "congress", "governor", "primary", "electoral", "parliament", "politics", "trump", "biden"}},
	{NicheCrypto, TypeCrypto, []string{"bitcoin", "btc", "ethereum", "eth", "crypto", "solana", "dogecoin", "altcoin", "stablecoin"}},
	{NicheEconomy, TypeFinance, []string{"fed", "interest rate", "inflation", "cpi", "gdp", "recession", "stock market", "s&p"}},
	{NicheEntertainment, TypeCulture, []string{"oscars", "grammy", "box office", "movie", "album", "celebrity", "emmy"}},
}

// matchKeywords returns the first rule with a keyword contained in text.
func matchKeywords(text string) (keywordRule, bool) {
	if text == "" {
		return keywordRule{}, false
	}
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if containsKeyword(text, kw) {
				return rule, true
			}
		}
	}
	return keywordRule{}, false
}
