package format

import (
	"math"
	"time"

	"github.com/koustreak/sqlconsole/internal/result"
)

// TimestampLayout renders "MM/DD/YY  HH:MM:SS.mmm" (two spaces).
const TimestampLayout = "01/02/06  15:04:05.000"

// Link is a rendered cross-reference.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

func (l Link) String() string { return l.Text }

// Markup is text the renderer should pass through the host's markup
// engine (Syntax "wiki" for wiki formatting).
type Markup struct {
	Syntax string `json:"syntax"`
	Source string `json:"source"`
}

func (m Markup) String() string { return m.Source }

// LinkTo renders a non-empty cell as a link of the given kind.
func LinkTo(links LinkBuilder, kind string) Rule {
	return func(v any) (any, bool) {
		text := result.AsString(v)
		if v == nil || text == "" {
			return nil, false
		}
		return Link{Text: text, Href: links.BuildLink(kind, text)}, true
	}
}

// WikiMarkup renders a text cell as wiki markup.
func WikiMarkup(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	return Markup{Syntax: "wiki", Source: result.AsString(v)}, true
}

// Timestamp renders a numeric cell holding a Unix time in unit.
func Timestamp(unit TimeUnit, loc *time.Location) Rule {
	return func(v any) (any, bool) {
		if v == nil {
			return nil, false
		}
		n, ok := result.AsFloat64(v)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}

		var t time.Time
		switch unit {
		case Seconds:
			sec, frac := math.Modf(n)
			t = time.Unix(int64(sec), int64(frac*1e9))
		default:
			t = time.UnixMicro(int64(n))
		}
		return t.In(loc).Format(TimestampLayout), true
	}
}

func baseRules(cfg Config) RuleSet {
	ts := Timestamp(cfg.TimeUnit, cfg.Location)
	return RuleSet{
		"path":       LinkTo(cfg.Links, KindBrowser),
		"base_path":  LinkTo(cfg.Links, KindBrowser),
		"rev":        LinkTo(cfg.Links, KindChangeset),
		"base_rev":   LinkTo(cfg.Links, KindChangeset),
		"ticket":     LinkTo(cfg.Links, KindTicket),
		"query":      LinkTo(cfg.Links, KindQuery),
		"time":       ts,
		"changetime": ts,
	}
}

func wikiRules(links LinkBuilder) RuleSet {
	return RuleSet{
		"name": LinkTo(links, KindWiki),
		"text": WikiMarkup,
	}
}

func ticketRules(links LinkBuilder) RuleSet {
	return RuleSet{
		"id":          LinkTo(links, KindTicket),
		"description": WikiMarkup,
	}
}

func reportRules(links LinkBuilder) RuleSet {
	return RuleSet{
		"id": LinkTo(links, KindReport),
	}
}

func listRules(links LinkBuilder) RuleSet {
	return RuleSet{
		"name": LinkTo(links, KindTable),
	}
}
