package domain

// Authorization identifies the customer account to the logistics backend.
type Authorization struct {
	Code  string `json:"code"`
	Token string `json:"token"`
}

// OrderRecord is the flat order map of a createForecast request.
// Insurance fields are only set when insurance is enabled.
type OrderRecord struct {
	ChannelID            string `json:"channelid"`
	CustomerNumber1      string `json:"customernumber1"`
	CustomerNumber2      string `json:"customernumber2"`
	Number               int    `json:"number"`
	IsBattery            string `json:"isbattery"`
	IsInsurance          string `json:"isinsurance"`
	ForecastWeight       string `json:"forecastweight"`
	PackageTypeCode      string `json:"packagetypecode"`
	GoodsTypeCode        string `json:"goodstypecode"`
	CountryCode          string `json:"countrycode"`
	ConsigneeName        string `json:"consigneename"`
	ConsigneeCorpName    string `json:"consigneecorpname"`
	ConsigneeAddress1    string `json:"consigneeaddress1"`
	ConsigneeAddress2    string `json:"consigneeaddress2"`
	ConsigneeAddress3    string `json:"consigneeaddress3"`
	ConsigneeCity        string `json:"consigneecity"`
	ConsigneeZipCode     string `json:"consigneezipcode"`
	ConsigneeProvince    string `json:"consigneeprovince"`
	ConsigneeTel         string `json:"consigneetel"`
	ConsigneeMobile      string `json:"consigneemobile"`
	ConsigneeHouseNumber string `json:"consigneehousenumber"`
	ConsigneeTaxNumber   string `json:"consigneetaxnumber"`
	ConsigneeEmail       string `json:"consigneeemail"`
	DeclareTypePkID      int    `json:"declaretypepkid"`
	ProductTypePkID      int    `json:"producttypepkid"`
	InsuranceValue       string `json:"insurancevalue,omitempty"`
	InsuranceTypePkID    int    `json:"insurancetypepkid,omitempty"`
	InsuranceCurrency    string `json:"insurancecurrency,omitempty"`
}

// Volume is one package of an order.
type Volume struct {
	CustomerChildNumber string `json:"customerchildnumber"`
	PreNum              string `json:"prenum"`
	PreWidth            string `json:"prewidth"`
	PreLength           string `json:"prelength"`
	PreHeight           string `json:"preheight"`
	PreRWeight          string `json:"prerweight"`
}

// Item is one declared line item of an order.
type Item struct {
	SKUCode         string `json:"skucode"`
	CNName          string `json:"cnname"`
	ENName          string `json:"enname"`
	HSCode          string `json:"hscode"`
	Quantity        string `json:"quantity"`
	QuantityUnit    string `json:"quantityunit"`
	Price           string `json:"price"`
	DeclareCurrency string `json:"declarecurrency"`
	Weight          string `json:"weight"`
	Origin          string `json:"origin"`
	Model           string `json:"model"`
	Note            string `json:"note"`
	Material        string `json:"material"`
	Brand           string `json:"brand"`
	Usage           string `json:"usage"`
}

// OrderGroup bundles an order with its packages and line items.
type OrderGroup struct {
	Order   *OrderRecord `json:"order"`
	Volumes []Volume     `json:"volumes"`
	Items   []Item       `json:"items"`
}

// OrderPayload is the createForecast request body.
type OrderPayload struct {
	Authorization *Authorization `json:"authorization"`
	Datas         []OrderGroup   `json:"datas"`
}

// ResolvedCodes carries the dictionary codes chosen for an order.
// Insurance codes are only meaningful when insurance is enabled.
type ResolvedCodes struct {
	DeclareType   string `json:"declare_type"`
	ProductType   string `json:"product_type"`
	InsuranceType string `json:"insurance_type,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// Clone returns a deep copy of p.
func (p *OrderPayload) Clone() *OrderPayload {
	if p == nil {
		return nil
	}
	out := &OrderPayload{}
	if p.Authorization != nil {
		auth := *p.Authorization
		out.Authorization = &auth
	}
	out.Datas = make([]OrderGroup, len(p.Datas))
	for i, g := range p.Datas {
		var order *OrderRecord
		if g.Order != nil {
			o := *g.Order
			order = &o
		}
		out.Datas[i] = OrderGroup{
			Order:   order,
			Volumes: append([]Volume(nil), g.Volumes...),
			Items:   append([]Item(nil), g.Items...),
		}
	}
	return out
}
