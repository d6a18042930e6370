package ecb

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/robotomize/fxcalc/label"
	"github.com/shopspring/decimal"
)

const xmlCubeElement = "Cube"

// decodeXML parses the eurofxref document in streaming mode and hands every dated Cube to iterFunc
func decodeXML() decodeFunc {
	return func(b []byte, iterFunc func(rates euroDailyRates) error) error {
		if iterFunc == nil {
			return errMissingIterFunc
		}

		decoder := xml.NewDecoder(bytes.NewReader(b))
	TokenLoop:
		for {
			token, err := decoder.Token()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break TokenLoop
				}

				var syntaxErr *xml.SyntaxError
				if errors.As(err, &syntaxErr) {
					return fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error())
				}

				return fmt.Errorf("decode token: %w", err)
			}

			tp, ok := token.(xml.StartElement)
			if !ok || tp.Name.Local != xmlCubeElement || !hasAttr(tp, "time") {
				continue TokenLoop
			}

			var node xmlNode
			if err := decoder.DecodeElement(&node, &tp); err != nil {
				var syntaxErr *xml.SyntaxError
				if errors.As(err, &syntaxErr) {
					return fmt.Errorf("%w: %v", errDecodeToken, syntaxErr.Error())
				}

				return fmt.Errorf("decode element: %w", err)
			}

			daily := euroDailyRates{
				time:  time.Time(node.Time),
				rates: make(map[label.Symbol]decimal.Decimal, len(node.Rates)),
			}

			for _, r := range node.Rates {
				// skip nodes without currency or rate, the feed occasionally carries annotations
				if r.Currency == "" || r.Rate == "" {
					continue
				}

				rate, err := decimal.NewFromString(r.Rate)
				if err != nil {
					return fmt.Errorf("%w: rate for %s: %v", errAttributeNotValid, r.Currency, err)
				}

				if !rate.IsPositive() {
					return fmt.Errorf("%w: rate for %s is not positive", errAttributeNotValid, r.Currency)
				}

				daily.rates[label.Symbol(r.Currency)] = rate
			}

			if err := iterFunc(daily); err != nil {
				return fmt.Errorf("handle func: %w", err)
			}
		}

		return nil
	}
}

func hasAttr(el xml.StartElement, name string) bool {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return true
		}
	}

	return false
}

var _ xml.UnmarshalerAttr = (*xmlAttrTime)(nil)

type xmlAttrTime time.Time

func (x *xmlAttrTime) UnmarshalXMLAttr(attr xml.Attr) error {
	t, err := time.Parse("2006-01-02", attr.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", errAttributeNotValid, err)
	}

	*x = xmlAttrTime(t)

	return nil
}

type xmlNode struct {
	Time  xmlAttrTime `xml:"time,attr"`
	Rates []struct {
		Currency string `xml:"currency,attr"`
		Rate     string `xml:"rate,attr"`
	} `xml:"Cube"`
}
