package chart

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/AlharbiAbdullah/Cortex/internal/logging"
)

// parsed is the data portion produced by one parser
type parsed struct {
	Data  []Record
	Keys  []string
	XKey  string
	YKey  string
	Title string // default title, used only when the text has none
	Type  Type   // default type, used only when no keyword matched
}

// parser tries to pull data out of text
type parser func(text string) (parsed, bool)

var (
	dataBlockStartRe = regexp.MustCompile(`\w*data\s*=\s*\{`)
	keyArrayRe       = regexp.MustCompile(`["']([^"']+)["']\s*:\s*\[([^\]]*)\]`)
	orderDateRe      = regexp.MustCompile(`["']?order_date["']?\s*[:=]\s*\[([^\]]*)\]`)
	orderAmountRe    = regexp.MustCompile(`["']?order_amount["']?\s*[:=]\s*\[([^\]]*)\]`)
)

var (
	structuredXHints = []string{"date", "time", "name", "country"}
	structuredYHints = []string{"amount", "value", "count", "sales"}
	csvYHints        = []string{"amount", "value"}
)

// SalesFallbackTitle is the title given to the placeholder sales series
const SalesFallbackTitle = "Order Amounts Over Time"

// salesFallback is the placeholder series shown for replies that mention
// sales_data without carrying any data.
var salesFallback = []struct {
	date   string
	amount float64
}{
	{"2024-01-01", 1250},
	{"2024-01-02", 980},
	{"2024-01-03", 1430},
	{"2024-01-04", 1120},
	{"2024-01-05", 1675},
	{"2024-01-06", 1540},
	{"2024-01-07", 1890},
	{"2024-01-08", 1320},
	{"2024-01-09", 1710},
	{"2024-01-10", 2050},
}

// Options tunes extraction
type Options struct {
	// DisableSalesFallback turns off the placeholder series for "sales_data"
	DisableSalesFallback bool
}

// Extractor runs the parser chain over assistant replies
type Extractor struct {
	parsers []parser
	logger  *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger discards parse failures.
func NewExtractor(opts Options, logger *slog.Logger) *Extractor {
	parsers := []parser{parseStructuredLiteral, parseCSVFence, parseOrderArrays}
	if !opts.DisableSalesFallback {
		parsers = append(parsers, parseSalesDataFallback)
	}
	return &Extractor{
		parsers: parsers,
		logger:  logging.Component(logger, "chart"),
	}
}

var defaultExtractor = NewExtractor(Options{}, nil)

// Extract runs the default extractor
func Extract(text string) Info {
	return defaultExtractor.Extract(text)
}

// Extract derives chart information from text. It never panics; a failure
// inside a parser is logged and yields an Info without data.
func (e *Extractor) Extract(text string) (info Info) {
	info.Type = DetectType(text)
	info.Title = ExtractTitle(text)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("chart extraction failed", "panic", fmt.Sprint(r), "chars", len(text))
			info.Data, info.Keys, info.XKey, info.YKey = nil, nil, "", ""
		}
	}()

	p, ok := firstMatch(text, e.parsers...)
	if !ok {
		return info
	}

	info.Data = p.Data
	info.Keys = p.Keys
	info.XKey = p.XKey
	info.YKey = p.YKey
	if info.Title == "" {
		info.Title = p.Title
	}
	if info.Type == TypeNone {
		info.Type = p.Type
	}
	if info.Type == TypeNone {
		info.Type = TypeLine
	}

	e.logger.Debug("chart extracted", "type", info.Type, "records", len(info.Data), "x", info.XKey, "y", info.YKey)
	return info
}

// firstMatch returns the result of the first parser that succeeds
func firstMatch(text string, parsers ...parser) (parsed, bool) {
	for _, p := range parsers {
		if out, ok := p(text); ok {
			return out, true
		}
	}
	return parsed{}, false
}

// parseStructuredLiteral handles data = {"k1": [...], "k2": [...]}
func parseStructuredLiteral(text string) (parsed, bool) {
	loc := dataBlockStartRe.FindStringIndex(text)
	if loc == nil {
		return parsed{}, false
	}
	block, ok := braceBlock(text[loc[1]-1:])
	if !ok {
		return parsed{}, false
	}

	var (
		keys    []string
		columns = map[string][]Value{}
	)
	for _, m := range keyArrayRe.FindAllStringSubmatch(block, -1) {
		key := strings.TrimSpace(m[1])
		if _, dup := columns[key]; dup || key == "" {
			continue
		}
		var col []Value
		for _, tok := range splitList(m[2]) {
			col = append(col, coerce(tok))
		}
		keys = append(keys, key)
		columns[key] = col
	}
	if len(keys) < 2 {
		return parsed{}, false
	}

	data := zipColumns(keys, columns)
	if len(data) == 0 {
		return parsed{}, false
	}

	xKey := firstKeyContaining(keys, structuredXHints, keys[0])
	yKey := firstKeyContaining(without(keys, xKey), structuredYHints, secondKey(keys, xKey))
	return parsed{Data: data, Keys: keys, XKey: xKey, YKey: yKey}, true
}

// fencedBlock is one ``` block with its info string lowercased
type fencedBlock struct {
	tag  string
	body string
}

const fence = "```"

// fencedBlocks pairs opening and closing fences in order. An unclosed
// trailing fence is ignored.
func fencedBlocks(text string) []fencedBlock {
	var blocks []fencedBlock
	rest := text
	for {
		open := strings.Index(rest, fence)
		if open < 0 {
			return blocks
		}
		rest = rest[open+len(fence):]

		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return blocks
		}
		tag := strings.ToLower(strings.TrimSpace(rest[:nl]))
		body := rest[nl+1:]

		end := strings.Index(body, fence)
		if end < 0 {
			return blocks
		}
		blocks = append(blocks, fencedBlock{tag: tag, body: body[:end]})
		rest = body[end+len(fence):]
	}
}

// parseCSVFence handles an untagged or csv fenced block whose first line is a header row
func parseCSVFence(text string) (parsed, bool) {
	for _, b := range fencedBlocks(text) {
		if b.tag != "" && b.tag != "csv" {
			continue
		}
		lines := nonEmptyLines(b.body)
		if len(lines) < 2 {
			continue
		}

		var headers []string
		for _, h := range strings.Split(lines[0], ",") {
			headers = append(headers, strings.TrimSpace(h))
		}
		if len(headers) < 2 || headers[0] == "" {
			continue
		}

		var data []Record
		for _, line := range lines[1:] {
			cells := strings.Split(line, ",")
			rec := make(Record, len(headers))
			for i, h := range headers {
				if i < len(cells) {
					rec[h] = coerce(cells[i])
				}
			}
			data = append(data, rec)
		}

		xKey := headers[0]
		yKey := firstKeyContaining(headers[1:], csvYHints, headers[1])
		return parsed{Data: data, Keys: headers, XKey: xKey, YKey: yKey}, true
	}
	return parsed{}, false
}

// parseOrderArrays handles order_date: [...] plus order_amount: [...]
func parseOrderArrays(text string) (parsed, bool) {
	dm := orderDateRe.FindStringSubmatch(text)
	am := orderAmountRe.FindStringSubmatch(text)
	if dm == nil || am == nil {
		return parsed{}, false
	}

	dates := splitList(dm[1])
	amounts := splitList(am[1])
	if len(dates) == 0 || len(dates) != len(amounts) {
		return parsed{}, false
	}

	data := make([]Record, len(dates))
	for i := range dates {
		data[i] = Record{"date": coerce(dates[i]), "amount": coerce(amounts[i])}
	}
	return parsed{
		Data: data,
		Keys: []string{"date", "amount"},
		XKey: "date",
		YKey: "amount",
		Type: TypeLine,
	}, true
}

// parseSalesDataFallback supplies placeholder data for replies mentioning sales_data
func parseSalesDataFallback(text string) (parsed, bool) {
	if !strings.Contains(strings.ToLower(text), "sales_data") {
		return parsed{}, false
	}

	data := make([]Record, len(salesFallback))
	for i, row := range salesFallback {
		data[i] = Record{"date": String(row.date), "amount": Number(row.amount)}
	}
	return parsed{
		Data:  data,
		Keys:  []string{"date", "amount"},
		XKey:  "date",
		YKey:  "amount",
		Title: SalesFallbackTitle,
		Type:  TypeLine,
	}, true
}

// braceBlock returns the text between the '{' at s[0] and its matching '}'
func braceBlock(s string) (string, bool) {
	if s == "" || s[0] != '{' {
		return "", false
	}
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], true
			}
		}
	}
	return "", false
}

// zipColumns builds one record per index, up to the shortest column
func zipColumns(keys []string, columns map[string][]Value) []Record {
	n := -1
	for _, k := range keys {
		if n < 0 || len(columns[k]) < n {
			n = len(columns[k])
		}
	}
	if n <= 0 {
		return nil
	}

	data := make([]Record, n)
	for i := 0; i < n; i++ {
		rec := make(Record, len(keys))
		for _, k := range keys {
			rec[k] = columns[k][i]
		}
		data[i] = rec
	}
	return data
}

// firstKeyContaining returns the first key whose lowercase form contains one
// of hints, or def.
func firstKeyContaining(keys, hints []string, def string) string {
	for _, k := range keys {
		lower := strings.ToLower(k)
		for _, h := range hints {
			if strings.Contains(lower, h) {
				return k
			}
		}
	}
	return def
}

func without(keys []string, skip string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != skip {
			out = append(out, k)
		}
	}
	return out
}

// secondKey is the second key, or the first one that is not x
func secondKey(keys []string, xKey string) string {
	if len(keys) > 1 && keys[1] != xKey {
		return keys[1]
	}
	for _, k := range keys {
		if k != xKey {
			return k
		}
	}
	return ""
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
