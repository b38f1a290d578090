package spot

// Columns lists the output fields in emission order.
var Columns = [...]string{
	"name",
	"kana",
	"category1",
	"category2",
	"category3",
	"postal_code",
	"address_name",
	"address_kana",
}

// Record is one normalized tourism spot. Missing source fields are "".
type Record struct {
	Name        string `json:"name"`
	Kana        string `json:"kana"`
	Category1   string `json:"category1"`
	Category2   string `json:"category2"`
	Category3   string `json:"category3"`
	PostalCode  string `json:"postal_code"`
	AddressName string `json:"address_name"`
	AddressKana string `json:"address_kana"`
}

// Values returns the fields in the order given by Columns.
func (r Record) Values() []string {
	return []string{
		r.Name,
		r.Kana,
		r.Category1,
		r.Category2,
		r.Category3,
		r.PostalCode,
		r.AddressName,
		r.AddressKana,
	}
}
