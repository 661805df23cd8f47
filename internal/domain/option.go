package domain

// NameField identifies one display-name slot of a ReferenceOption.
type NameField string

const (
	NameFieldName        NameField = "name"
	NameFieldCNName      NameField = "cnname"
	NameFieldENName      NameField = "enname"
	NameFieldProductName NameField = "productname"
	NameFieldCode        NameField = "code"
)

// DefaultNameFields is the search order used when a caller does not restrict
// which display names to match against.
var DefaultNameFields = []NameField{NameFieldName, NameFieldCNName, NameFieldENName, NameFieldProductName}

// ReferenceOption is one entry of a reference dictionary (insurance types,
// currencies, declare types, product types, ...). Integer codes are held in
// their decimal string form.
type ReferenceOption struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name,omitempty" yaml:"name"`
	CNName      string `json:"cnname,omitempty" yaml:"cnname"`
	ENName      string `json:"enname,omitempty" yaml:"enname"`
	ProductName string `json:"productname,omitempty" yaml:"productname"`
	Note        string `json:"note,omitempty" yaml:"note"`
}

// DisplayName returns the value held in the given name slot.
func (o ReferenceOption) DisplayName(f NameField) string {
	switch f {
	case NameFieldName:
		return o.Name
	case NameFieldCNName:
		return o.CNName
	case NameFieldENName:
		return o.ENName
	case NameFieldProductName:
		return o.ProductName
	case NameFieldCode:
		return o.Code
	default:
		return ""
	}
}

// Label is the first non-empty of name, cnname and enname.
func (o ReferenceOption) Label() string {
	for _, f := range []NameField{NameFieldName, NameFieldCNName, NameFieldENName} {
		if v := o.DisplayName(f); v != "" {
			return v
		}
	}
	return o.Code
}
