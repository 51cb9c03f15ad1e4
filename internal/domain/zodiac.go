package domain

// ZodiacSigns is the canonical sign list. Order matters: score ties are
// broken by the first sign reaching the maximum in this order.
var ZodiacSigns = []string{
	"aries",
	"taurus",
	"gemini",
	"cancer",
	"leo",
	"virgo",
	"libra",
	"scorpio",
	"sagittarius",
	"capricorn",
	"aquarius",
	"pisces",
}

const (
	MinScoreValue = 1
	MaxScoreValue = 10
)

func IsZodiacSign(s string) bool {
	for _, sign := range ZodiacSigns {
		if sign == s {
			return true
		}
	}
	return false
}
