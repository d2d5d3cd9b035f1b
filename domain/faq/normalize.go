package faq

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps common misspellings and informal forms of Turkish support
// questions to their canonical spelling. Entries are whole-word and applied
// independently; every value must itself be a normalization fixed point,
// which is verified at package init.
var replacements = map[string]string{
	// deasciified spellings
	"sifre":       "şifre",
	"sifrem":      "şifrem",
	"sifremi":     "şifremi",
	"giris":       "giriş",
	"cikis":       "çıkış",
	"odeme":       "ödeme",
	"ucret":       "ücret",
	"uyelik":      "üyelik",
	"uye":         "üye",
	"hesabim":     "hesabım",
	"kullanici":   "kullanıcı",
	"yardim":      "yardım",
	"musteri":     "müşteri",
	"degistirme":  "değiştirme",
	"guncelleme":  "güncelleme",
	"nasil":       "nasıl",
	"tesekkurler": "teşekkürler",

	// informal forms
	"nasi":   "nasıl",
	"nerden": "nereden",
	"naptim": "ne yaptım",
	"mail":   "eposta",
	"email":  "eposta",
	"tel":    "telefon",
}

// lowerTurkish folds case with Turkish rules, so İ maps to i and I to ı.
var lowerTurkish = cases.Lower(language.Turkish)

func init() {
	for word, canonical := range replacements {
		if got := Normalize(canonical); got != canonical {
			panic(fmt.Sprintf("faq: replacement %q -> %q is not a normalization fixed point (normalizes to %q)", word, canonical, got))
		}
	}
}

// Normalize canonicalizes a raw question. It is pure and deterministic;
// inputs that reduce to nothing yield the empty string. Normalize is
// idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	s := strings.TrimSpace(lowerTurkish.String(text))
	s = collapseWhitespace(s)
	s = stripDisallowed(s)

	words := strings.Split(s, " ")
	for i, w := range words {
		// a trailing question mark is a word boundary, not part of the word
		core := strings.TrimRight(w, "?")
		if canonical, ok := replacements[core]; ok {
			words[i] = canonical + w[len(core):]
		}
	}
	s = strings.Join(words, " ")

	return collapseWhitespace(s)
}

// collapseWhitespace reduces runs of whitespace to single spaces and trims
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripDisallowed keeps letters, digits, spaces and question marks
func stripDisallowed(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '?' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
