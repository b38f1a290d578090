package spot

import (
	"strings"

	"github.com/kbukum/kanko/jsonval"
)

// Variant selects which rendering of a name or address to read.
type Variant string

const (
	Written Variant = "written"
	Spoken  Variant = "spoken"
)

// addressParts are joined in this order.
var addressParts = [...]string{"pref", "city", "street", "building"}

// Address concatenates the variant of each address component of place,
// skipping components that are absent. No separator is inserted.
func Address(place jsonval.Value, v Variant) string {
	var b strings.Builder
	for _, part := range addressParts {
		b.WriteString(text(place, part, string(v)))
	}
	return b.String()
}

// Project maps a raw spot document onto a Record. It never fails: any field
// that cannot be found yields "".
func Project(raw jsonval.Value) Record {
	genre := raw.Get("genres").Index(0)
	place := raw.Get("place")
	return Record{
		Name:        text(raw, "name", "name1", string(Written)),
		Kana:        text(raw, "name", "name1", string(Spoken)),
		Category1:   text(genre, "L"),
		Category2:   text(genre, "M"),
		Category3:   text(genre, "S"),
		PostalCode:  text(place, "postal_code"),
		AddressName: Address(place, Written),
		AddressKana: Address(place, Spoken),
	}
}

func text(v jsonval.Value, keys ...string) string {
	found, ok := v.Lookup(keys...)
	if !ok {
		return ""
	}
	s, _ := found.Text()
	return s
}
