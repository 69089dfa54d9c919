package pdf

import (
	"strings"
)

// symbolLabels replaces glyphs the core PDF fonts cannot draw
var symbolLabels = strings.NewReplacer(
	"📊", "",
	"📈", "",
	"🗣️", "",
	"🗣", "",
	"🏁", "",
	"📝", "",
	"🔎", "",
	"✅", "[OK]",
	"❌", "[X]",
	"⚠️", "[!]",
	"⚠", "[!]",
	"🔴", "[RED]",
	"🟡", "[YELLOW]",
	"🟢", "[GREEN]",
	"→", "->",
	"≥", ">=",
	"≤", "<=",
	"₹", "Rs.",
)

// Sanitize maps text onto the Windows-1252 range used by the core fonts.
// Known symbols become short labels; other runes outside the range are dropped.
func Sanitize(s string) string {
	s = symbolLabels.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x100 || cp1252Extras[r] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var cp1252Extras = map[rune]bool{
	'€': true, '‚': true, 'ƒ': true, '„': true, '…': true, '†': true, '‡': true,
	'ˆ': true, '‰': true, 'Š': true, '‹': true, 'Œ': true, 'Ž': true, '‘': true,
	'’': true, '“': true, '”': true, '•': true, '–': true, '—': true, '˜': true,
	'™': true, 'š': true, '›': true, 'œ': true, 'ž': true, 'Ÿ': true,
}
