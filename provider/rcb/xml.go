package rcb

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

const xmlRootElement = "ValCurs"

// decodeXML parses the daily quotation. Value is the ruble price of Nominal units of the currency
func decodeXML(b []byte) (rubDailyRates, error) {
	var dailyRates rubDailyRates

	decoder := xml.NewDecoder(bytes.NewReader(b))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "windows-1251":
			return charmap.Windows1251.NewDecoder().Reader(input), nil
		case "utf-8":
			return input, nil
		}

		return nil, fmt.Errorf("%w: %s", errUnknownCharset, charset)
	}

TokenLoop:
	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break TokenLoop
			}

			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return dailyRates, fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error())
			}

			return dailyRates, fmt.Errorf("decode token: %w", err)
		}

		tp, ok := token.(xml.StartElement)
		if !ok || tp.Name.Local != xmlRootElement {
			continue TokenLoop
		}

		var node xmlNode
		if err := decoder.DecodeElement(&node, &tp); err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return dailyRates, fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error())
			}

			return dailyRates, fmt.Errorf("decode element: %w", err)
		}

		dailyRates.time = time.Time(node.Time)
		dailyRates.rates = make(map[label.Symbol]decimal.Decimal, len(node.Rates))

		for _, r := range node.Rates {
			code := strings.TrimSpace(r.Currency)
			if code == "" {
				continue
			}

			value, err := parseRuDecimal(r.Value)
			if err != nil {
				return dailyRates, fmt.Errorf("%w: value for %s: %v", errAttributeNotValid, code, err)
			}

			nominal := decimal.NewFromInt(1)
			if s := strings.TrimSpace(r.Nominal); s != "" {
				nominal, err = parseRuDecimal(s)
				if err != nil {
					return dailyRates, fmt.Errorf("%w: nominal for %s: %v", errAttributeNotValid, code, err)
				}
			}

			if !value.IsPositive() || !nominal.IsPositive() {
				return dailyRates, fmt.Errorf("%w: %s is not positive", errAttributeNotValid, code)
			}

			dailyRates.rates[label.Symbol(code)] = nominal.Div(value)
		}
	}

	return dailyRates, nil
}

// parseRuDecimal accepts the decimal comma used by the feed
func parseRuDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

var _ xml.UnmarshalerAttr = (*xmlAttrTime)(nil)

type xmlAttrTime time.Time

func (x *xmlAttrTime) UnmarshalXMLAttr(attr xml.Attr) error {
	t, err := time.Parse("02.01.2006", attr.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", errAttributeNotValid, err)
	}

	*x = xmlAttrTime(t)

	return nil
}

type xmlCcyRate struct {
	Currency string `xml:"CharCode"`
	Nominal  string `xml:"Nominal"`
	Value    string `xml:"Value"`
}

type xmlNode struct {
	Time  xmlAttrTime  `xml:"Date,attr"`
	Rates []xmlCcyRate `xml:"Valute"`
}
