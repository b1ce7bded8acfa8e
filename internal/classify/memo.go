package classify

import (
	"regexp"
	"time"

	"github.com/insightdelivered/statement-normalizer/internal/codec"
)

// CardPurchase holds what a card purchase memo reveals.
type CardPurchase struct {
	Date    *time.Time
	CheckNo string
}

// MemoPattern extracts card purchase details from free-text memos.
// DateGroup and CheckGroup are submatch indexes; zero means not captured.
type MemoPattern struct {
	Re         *regexp.Regexp
	DateLayout string
	DateGroup  int
	CheckGroup int
}

// Extract reports whether memo matches. A matched date that does not parse
// leaves Date nil.
func (p MemoPattern) Extract(memo string) (CardPurchase, bool) {
	m := p.Re.FindStringSubmatch(memo)
	if m == nil {
		return CardPurchase{}, false
	}
	var cp CardPurchase
	if p.DateGroup > 0 && p.DateGroup < len(m) {
		if d, err := codec.ParseDate(m[p.DateGroup], p.DateLayout); err == nil {
			cp.Date = &d
		}
	}
	if p.CheckGroup > 0 && p.CheckGroup < len(m) {
		cp.CheckNo = m[p.CheckGroup]
	}
	return cp, true
}

var (
	// SwedbankCardPurchase matches "PIRKUMS <card> <yyyy.mm.dd> <text> (<ref>)".
	SwedbankCardPurchase = MemoPattern{
		Re:         regexp.MustCompile(`^PIRKUMS \d+ (\d{4}\.\d{2}\.\d{2}) .* \((\d+)\)`),
		DateLayout: codec.DateCompact,
		DateGroup:  1,
		CheckGroup: 2,
	}

	// SEBCardPurchase matches a trailing "#<ref>".
	SEBCardPurchase = MemoPattern{
		Re:         regexp.MustCompile(`#(\d+)$`),
		CheckGroup: 1,
	}

	// DNBCardPurchase matches "<text> Pirkums - <merchant> - par dd/mm/yyyy".
	DNBCardPurchase = MemoPattern{
		Re:         regexp.MustCompile(`^.* Pirkums - .*? - par (\d{2}/\d{2}/\d{4})`),
		DateLayout: codec.DateSlashed,
		DateGroup:  1,
	}
)
