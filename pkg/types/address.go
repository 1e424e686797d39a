package types

import "strings"

// Address is the shipping/billing address snapshot stored as jsonb.
type Address struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

// IsZero reports whether no field has been populated.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Validate returns the names of required fields that are empty.
func (a Address) Validate() []string {
	var missing []string
	required := map[string]string{
		"name":          a.Name,
		"phone":         a.Phone,
		"address_line1": a.AddressLine1,
		"city":          a.City,
		"state":         a.State,
		"pincode":       a.Pincode,
		"country":       a.Country,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}
