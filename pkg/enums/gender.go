package enums

// Gender is the audience a product is marketed to.
type Gender string

const (
	GenderWomen  Gender = "women"
	GenderMen    Gender = "men"
	GenderUnisex Gender = "unisex"
)
